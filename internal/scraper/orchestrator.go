package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog"

	"github.com/medmaha/dokoola-scraper/internal/browser"
	"github.com/medmaha/dokoola-scraper/internal/htmlutil"
	"github.com/medmaha/dokoola-scraper/internal/models"
	"github.com/medmaha/dokoola-scraper/internal/parser"
)

const (
	// DefaultMaxJobs bounds how many listing links one run will visit.
	DefaultMaxJobs = 20
	// DefaultWorkers is the parse pool size when no override is configured.
	DefaultWorkers = 20
)

// SiteConfig describes one supported board: where its listing lives, how to
// recognize detail links on it, and which extractor variant reads its pages.
type SiteConfig struct {
	Site         string
	BaseURL      string
	ListingPath  string
	LinkSelector string
	MaxJobs      int
	Workers      int

	// PublishStatus hints to the ingestion side whether records from this
	// board land as drafts or go straight to published.
	PublishStatus string

	// NewExtractor builds the per-page extractor from a sanitized document.
	NewExtractor func(doc *goquery.Document, pageURL string) parser.Extractor
}

// LinkFailure records why one detail link produced no job.
type LinkFailure struct {
	URL string
	Err error
}

// Scraper runs one complete scrape for one board. Listing navigation and
// page-source capture happen sequentially on the calling goroutine against
// the single shared session; only captured HTML snapshots are handed to the
// parse pool. That sequencing is what keeps the shared browser safe and
// must not be reordered.
type Scraper struct {
	cfg     SiteConfig
	session browser.Session
	logger  zerolog.Logger

	processed mapset.Set[string]

	mu       sync.Mutex
	jobs     []models.ScrapedJob
	failures []LinkFailure
}

func New(cfg SiteConfig, session browser.Session, logger zerolog.Logger) *Scraper {
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = DefaultMaxJobs
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Scraper{
		cfg:       cfg,
		session:   session,
		logger:    logger.With().Str("site", cfg.Site).Logger(),
		processed: mapset.NewSet[string](),
	}
}

// Run drives the pipeline end to end: fetch the listing, bound and dedupe
// its links, then for each link navigate, snapshot, and parse on the worker
// pool. Listing failures abort the run; per-link failures are recorded and
// skipped. Results arrive in completion order, not listing order.
func (s *Scraper) Run(ctx context.Context) ([]models.ScrapedJob, error) {
	if err := s.session.Start(ctx); err != nil {
		return nil, err
	}

	listingURL := s.cfg.BaseURL + s.cfg.ListingPath
	if err := s.session.Navigate(ctx, listingURL); err != nil {
		return nil, fmt.Errorf("listing page: %w", err)
	}
	source, err := s.session.PageSource()
	if err != nil {
		return nil, fmt.Errorf("listing page: %w", err)
	}

	links, err := CollectLinks(source, s.cfg.BaseURL, s.cfg.LinkSelector, s.cfg.MaxJobs)
	if err != nil {
		return nil, fmt.Errorf("listing page: %w", err)
	}
	if len(links) == 0 {
		s.logger.Info().Msg("no job links found")
		return nil, nil
	}

	var wg sync.WaitGroup
	pool := make(chan struct{}, s.cfg.Workers)

	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		// Add reports false when the href was already dispatched; listing
		// pages repeat links more often than not.
		if !s.processed.Add(link) {
			continue
		}

		if err := s.session.Navigate(ctx, link); err != nil {
			s.recordFailure(link, err)
			continue
		}
		pageSource, err := s.session.PageSource()
		if err != nil {
			s.recordFailure(link, err)
			continue
		}

		wg.Add(1)
		pool <- struct{}{}
		go func(link, pageSource string) {
			defer wg.Done()
			defer func() { <-pool }()
			s.parsePage(link, pageSource)
		}(link, pageSource)
	}

	wg.Wait()

	s.logger.Info().
		Int("links", len(links)).
		Int("jobs", len(s.jobs)).
		Int("failed", len(s.failures)).
		Msg("scrape finished")

	return s.Jobs(), ctx.Err()
}

// parsePage runs one extractor against a captured snapshot. Failures stay
// on this item: parse errors become recorded failures, pages missing a
// required field are silently not jobs.
func (s *Scraper) parsePage(link, pageSource string) {
	doc, err := htmlutil.Parse(pageSource)
	if err != nil {
		s.recordFailure(link, err)
		return
	}

	ex := s.cfg.NewExtractor(doc, link)
	if _, ok := parser.Parse(ex, link, s.collect); !ok {
		s.logger.Debug().Str("url", link).Msg("page is not a job posting")
	}
}

func (s *Scraper) collect(job models.ScrapedJob) {
	if job.ThirdPartyMetadata != nil && s.cfg.PublishStatus != "" {
		job.ThirdPartyMetadata[models.MetaPublishStatus] = s.cfg.PublishStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

func (s *Scraper) recordFailure(link string, err error) {
	s.logger.Warn().Str("url", link).Err(err).Msg("job page failed")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, LinkFailure{URL: link, Err: err})
}

// Jobs returns a copy of the records produced so far.
func (s *Scraper) Jobs() []models.ScrapedJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ScrapedJob, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Failures returns the per-link failure reasons from the run.
func (s *Scraper) Failures() []LinkFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LinkFailure, len(s.failures))
	copy(out, s.failures)
	return out
}

// Processed reports whether url was dispatched during the run.
func (s *Scraper) Processed(url string) bool {
	return s.processed.Contains(url)
}

// CollectLinks extracts up to max non-empty detail hrefs matching selector,
// resolved against base, preserving listing order.
func CollectLinks(listingSource, base, selector string, max int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingSource))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if max > 0 && len(links) >= max {
			return false
		}
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}
		links = append(links, absoluteURL(base, href))
		return true
	})
	return links, nil
}
