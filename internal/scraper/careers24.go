package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/medmaha/dokoola-scraper/internal/htmlutil"
	"github.com/medmaha/dokoola-scraper/internal/models"
	"github.com/medmaha/dokoola-scraper/internal/parser"
)

// Careers24 lays its detail pages out as a summary table of labelled rows
// (dt/dd pairs) next to a free-form description section, so most fields are
// looked up by their row label rather than by class.
type Careers24 struct {
	doc  *goquery.Document
	url  string
	rows map[string]string
}

func NewCareers24(doc *goquery.Document, pageURL string) parser.Extractor {
	c := &Careers24{doc: doc, url: pageURL, rows: map[string]string{}}
	doc.Find(".job-summary dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(htmlutil.CleanText(dt.Text()))
		value := htmlutil.CleanText(dt.Next().Filter("dd").Text())
		if label == "" || value == "" {
			return
		}
		c.rows[strings.TrimSuffix(label, ":")] = value
	})
	return c
}

func (c *Careers24) SiteName() string { return SiteCareers24 }

func (c *Careers24) row(label string) string {
	return c.rows[label]
}

func (c *Careers24) Title() string {
	return htmlutil.CleanText(c.doc.Find("h1").First().Text())
}

func (c *Careers24) CompanyName() string {
	if company := c.row("company"); company != "" {
		return company
	}
	return c.row("recruiter")
}

func (c *Careers24) Description() string {
	return selectionHTML(c.doc.Find("#job-description, .job-description"))
}

func (c *Careers24) JobTypeText() string {
	return c.row("employment type")
}

func (c *Careers24) Location() models.Location {
	return models.Location{
		Address: c.row("location"),
		Country: c.row("country"),
	}
}

func (c *Careers24) PostedAt() (time.Time, bool) {
	return c.dateRow("posted")
}

func (c *Careers24) Deadline() (time.Time, bool) {
	return c.dateRow("apply before")
}

func (c *Careers24) dateRow(label string) (time.Time, bool) {
	ts, err := parseDate(c.row(label))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (c *Careers24) Categories() []string {
	if sectors := c.row("sector"); sectors != "" {
		return splitList(sectors)
	}
	return itemTexts(c.doc.Find(".job-sectors a"))
}

func (c *Careers24) RequiredSkills() []string {
	return itemTexts(c.doc.Find(".job-skills li, .skills-tags span"))
}

func (c *Careers24) Benefits() []string {
	if benefits := c.row("benefits"); benefits != "" {
		return splitList(benefits)
	}
	return nil
}

func (c *Careers24) Pricing() map[string]string {
	salary := c.row("salary")
	if salary == "" {
		return nil
	}
	pricing := map[string]string{"salary": salary}
	if period := c.row("salary period"); period != "" {
		pricing["period"] = period
	}
	return pricing
}
