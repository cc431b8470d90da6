package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/medmaha/dokoola-scraper/internal/models"
	"github.com/medmaha/dokoola-scraper/internal/parser"
)

// BrighterMonday postings carry a schema.org JobPosting block instead of
// stable content markup, so every field comes out of the first JobPosting
// found in the page's ld+json scripts.
type BrighterMonday struct {
	doc     *goquery.Document
	url     string
	posting map[string]any
}

func NewBrighterMonday(doc *goquery.Document, pageURL string) parser.Extractor {
	b := &BrighterMonday{doc: doc, url: pageURL}
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		data, err := decodeJSONLD(s.Text())
		if err != nil {
			return true
		}
		if posting, ok := findJobPosting(data); ok {
			b.posting = posting
			return false
		}
		return true
	})
	return b
}

func (b *BrighterMonday) SiteName() string { return SiteBrighterMonday }

func (b *BrighterMonday) Title() string {
	if b.posting == nil {
		return ""
	}
	return jsonString(b.posting["title"], b.posting["name"])
}

func (b *BrighterMonday) CompanyName() string {
	if b.posting == nil {
		return ""
	}
	return jsonString(jsonMap(b.posting["hiringOrganization"], "name"))
}

func (b *BrighterMonday) Description() string {
	if b.posting == nil {
		return ""
	}
	return strings.TrimSpace(jsonString(b.posting["description"]))
}

func (b *BrighterMonday) JobTypeText() string {
	if b.posting == nil {
		return ""
	}
	return jsonString(b.posting["employmentType"])
}

func (b *BrighterMonday) Location() models.Location {
	if b.posting == nil {
		return models.Location{}
	}
	address, country := jsonAddress(b.posting["jobLocation"])
	return models.Location{Address: address, Country: country}
}

func (b *BrighterMonday) PostedAt() (time.Time, bool) {
	return b.dateField("datePosted")
}

func (b *BrighterMonday) Deadline() (time.Time, bool) {
	return b.dateField("validThrough")
}

func (b *BrighterMonday) dateField(key string) (time.Time, bool) {
	if b.posting == nil {
		return time.Time{}, false
	}
	ts, err := parseDate(jsonString(b.posting[key]))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (b *BrighterMonday) Categories() []string {
	if b.posting == nil {
		return nil
	}
	return jsonStrings(b.posting["industry"])
}

func (b *BrighterMonday) RequiredSkills() []string {
	if b.posting == nil {
		return nil
	}
	if skills := jsonStrings(b.posting["skills"]); len(skills) > 0 {
		return skills
	}
	return jsonStrings(b.posting["qualifications"])
}

func (b *BrighterMonday) Benefits() []string {
	if b.posting == nil {
		return nil
	}
	return jsonStrings(b.posting["jobBenefits"])
}

func (b *BrighterMonday) Pricing() map[string]string {
	if b.posting == nil {
		return nil
	}
	salary, ok := b.posting["baseSalary"].(map[string]any)
	if !ok {
		return nil
	}

	pricing := map[string]string{}
	if currency := jsonString(salary["currency"]); currency != "" {
		pricing["currency"] = currency
	}
	switch value := salary["value"].(type) {
	case map[string]any:
		if v := jsonString(value["value"]); v != "" {
			pricing["amount"] = v
		}
		if v := jsonString(value["minValue"]); v != "" {
			pricing["min"] = v
		}
		if v := jsonString(value["maxValue"]); v != "" {
			pricing["max"] = v
		}
		if v := jsonString(value["unitText"]); v != "" {
			pricing["period"] = v
		}
	default:
		if v := jsonString(value); v != "" {
			pricing["amount"] = v
		}
	}
	if len(pricing) == 0 {
		return nil
	}
	return pricing
}
