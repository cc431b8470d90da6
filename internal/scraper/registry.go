package scraper

import "strings"

const (
	SiteJobberman      = "jobberman"
	SiteBrighterMonday = "brightermonday"
	SiteCareers24      = "careers24"
)

// Registry is the closed set of supported boards. Each entry binds a
// listing location and link selector to the extractor variant that reads
// that board's detail pages. Limits of zero fall back to the orchestrator
// defaults.
func Registry(maxJobs, workers int) map[string]SiteConfig {
	return map[string]SiteConfig{
		SiteJobberman: {
			Site:          SiteJobberman,
			BaseURL:       "https://www.jobberman.com",
			ListingPath:   "/jobs",
			LinkSelector:  "a.job-card__link",
			MaxJobs:       maxJobs,
			Workers:       workers,
			PublishStatus: "published",
			NewExtractor:  NewJobberman,
		},
		SiteBrighterMonday: {
			Site:          SiteBrighterMonday,
			BaseURL:       "https://www.brightermonday.co.ke",
			ListingPath:   "/jobs",
			LinkSelector:  "article.search-result a.search-result__job-title",
			MaxJobs:       maxJobs,
			Workers:       workers,
			PublishStatus: "draft",
			NewExtractor:  NewBrighterMonday,
		},
		SiteCareers24: {
			Site:          SiteCareers24,
			BaseURL:       "https://www.careers24.com",
			ListingPath:   "/jobs/browse",
			LinkSelector:  ".job-listing a.job-title-link",
			MaxJobs:       maxJobs,
			Workers:       workers,
			PublishStatus: "draft",
			NewExtractor:  NewCareers24,
		},
	}
}

// NormalizeSites lowercases and trims site names, dropping empties.
func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		site = strings.TrimPrefix(site, "www.")
		out = append(out, site)
	}
	return out
}
