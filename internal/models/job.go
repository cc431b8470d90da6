package models

import "time"

// JobType is a canonical employment-type tag.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeFreelance  JobType = "freelance"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeOther      JobType = "other"
)

// Keys written by the scraper into ThirdPartyMetadata.
const (
	MetaSiteName         = "site_name"
	MetaSourceURL        = "source_url"
	MetaCompanyName      = "company_name"
	MetaCategories       = "categories"
	MetaShortDescription = "short_description"
	MetaPublishStatus    = "publish_status"
)

// ScrapedJob is the normalized posting produced by one successfully parsed
// detail page. URL is the stable external identifier the ingestion side
// upserts by. Records are never mutated after construction, except by the
// metadata post-pass which only rewrites ThirdPartyMetadata.
type ScrapedJob struct {
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Address        string            `json:"address,omitempty"`
	Country        string            `json:"country,omitempty"`
	JobType        JobType           `json:"job_type"`
	JobTypeOther   string            `json:"job_type_other,omitempty"`
	Pricing        map[string]string `json:"pricing,omitempty"`
	Benefits       []string          `json:"benefits,omitempty"`
	RequiredSkills []string          `json:"required_skills,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Deadline       *time.Time        `json:"application_deadline,omitempty"`

	ThirdPartyMetadata map[string]string `json:"third_party_metadata,omitempty"`
}

// Company returns the company name recorded at parse time.
func (j ScrapedJob) Company() string {
	return j.ThirdPartyMetadata[MetaCompanyName]
}

// Site returns the name of the board the record came from.
func (j ScrapedJob) Site() string {
	return j.ThirdPartyMetadata[MetaSiteName]
}

// Location groups the address fields a site exposes for a posting.
type Location struct {
	Address string
	Country string
}
