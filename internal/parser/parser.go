package parser

import (
	"strings"
	"time"

	"github.com/medmaha/dokoola-scraper/internal/models"
)

// Extractor is the per-site extraction contract. Every method reads from a
// sanitized detail-page document; absence is the zero value. An Extractor is
// built for exactly one page and discarded after Parse returns.
type Extractor interface {
	// Title, CompanyName and Description are required; an empty return from
	// any of them means the page is not a job posting.
	Title() string
	CompanyName() string
	Description() string

	JobTypeText() string
	Location() models.Location
	PostedAt() (time.Time, bool)
	Deadline() (time.Time, bool)
	Categories() []string
	RequiredSkills() []string
	Benefits() []string
	Pricing() map[string]string
	SiteName() string
}

// Callback receives each record as soon as it is constructed.
type Callback func(models.ScrapedJob)

// jobTypeRules map a substring of the raw employment-type text to its
// canonical tag. First match wins; no match falls through to "other" with
// the original text preserved.
var jobTypeRules = []struct {
	substr string
	tag    models.JobType
}{
	{"full", models.JobTypeFullTime},
	{"part", models.JobTypePartTime},
	{"freelance", models.JobTypeFreelance},
	{"contract", models.JobTypeContract},
	{"intern", models.JobTypeInternship},
}

// NormalizeJobType classifies raw employment-type text into a canonical tag.
// The second return carries the verbatim input only for the "other" bucket.
func NormalizeJobType(raw string) (models.JobType, string) {
	folded := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range jobTypeRules {
		if strings.Contains(folded, rule.substr) {
			return rule.tag, ""
		}
	}
	return models.JobTypeOther, strings.TrimSpace(raw)
}

// Parse runs the extraction contract against one detail page. The required
// fields are checked first, in order, and an empty one ends the parse with
// no record and no further extractor calls. A constructed record is handed
// to emit before being returned.
//
// Parse is the single terminal operation; site variants only implement the
// field hooks and never reimplement this sequencing.
func Parse(ex Extractor, pageURL string, emit Callback) (models.ScrapedJob, bool) {
	title := strings.TrimSpace(ex.Title())
	if title == "" {
		return models.ScrapedJob{}, false
	}
	company := strings.TrimSpace(ex.CompanyName())
	if company == "" {
		return models.ScrapedJob{}, false
	}
	description := strings.TrimSpace(ex.Description())
	if description == "" {
		return models.ScrapedJob{}, false
	}

	jobType, other := NormalizeJobType(ex.JobTypeText())
	location := ex.Location()

	job := models.ScrapedJob{
		URL:            pageURL,
		Title:          title,
		Description:    description,
		Address:        location.Address,
		Country:        location.Country,
		JobType:        jobType,
		JobTypeOther:   other,
		Pricing:        ex.Pricing(),
		Benefits:       ex.Benefits(),
		RequiredSkills: ex.RequiredSkills(),
		ThirdPartyMetadata: map[string]string{
			models.MetaSiteName:    ex.SiteName(),
			models.MetaSourceURL:   pageURL,
			models.MetaCompanyName: company,
			models.MetaCategories:  strings.Join(ex.Categories(), ", "),
		},
	}

	if postedAt, ok := ex.PostedAt(); ok {
		job.CreatedAt = postedAt
	} else {
		job.CreatedAt = time.Now().UTC()
	}
	if deadline, ok := ex.Deadline(); ok {
		job.Deadline = &deadline
	}

	if emit != nil {
		emit(job)
	}
	return job, true
}
