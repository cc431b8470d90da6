package scraper

import (
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/medmaha/dokoola-scraper/internal/htmlutil"
	"github.com/medmaha/dokoola-scraper/internal/models"
	"github.com/medmaha/dokoola-scraper/internal/parser"
)

// Jobberman reads the class-based detail markup jobberman.com renders:
// a job-header block with the headline fields and a job-details block with
// the long-form sections.
type Jobberman struct {
	doc *goquery.Document
	url string
}

func NewJobberman(doc *goquery.Document, pageURL string) parser.Extractor {
	return &Jobberman{doc: doc, url: pageURL}
}

func (j *Jobberman) SiteName() string { return SiteJobberman }

func (j *Jobberman) Title() string {
	return htmlutil.CleanText(j.doc.Find("h1.job-header__title").First().Text())
}

func (j *Jobberman) CompanyName() string {
	company := j.doc.Find(".job-header__company a").First()
	if company.Length() == 0 {
		company = j.doc.Find(".job-header__company").First()
	}
	return htmlutil.CleanText(company.Text())
}

func (j *Jobberman) Description() string {
	return selectionHTML(j.doc.Find(".job-details__description"))
}

func (j *Jobberman) JobTypeText() string {
	return htmlutil.CleanText(j.doc.Find(".job-header__meta .job-type").First().Text())
}

func (j *Jobberman) Location() models.Location {
	return models.Location{
		Address: htmlutil.CleanText(j.doc.Find(".job-header__location").First().Text()),
		Country: htmlutil.CleanText(j.doc.Find(".job-header__country").First().Text()),
	}
}

func (j *Jobberman) PostedAt() (time.Time, bool) {
	return j.timeAttr(".job-header__posted time")
}

func (j *Jobberman) Deadline() (time.Time, bool) {
	return j.timeAttr(".job-details__deadline time")
}

func (j *Jobberman) timeAttr(selector string) (time.Time, bool) {
	node := j.doc.Find(selector).First()
	value, ok := node.Attr("datetime")
	if !ok {
		value = node.Text()
	}
	ts, err := parseDate(htmlutil.CleanText(value))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (j *Jobberman) Categories() []string {
	// First breadcrumb is the site root, not a category.
	crumbs := itemTexts(j.doc.Find(".job-breadcrumbs a"))
	if len(crumbs) > 1 {
		return crumbs[1:]
	}
	return nil
}

func (j *Jobberman) RequiredSkills() []string {
	return itemTexts(j.doc.Find(".job-details__skills li"))
}

func (j *Jobberman) Benefits() []string {
	return itemTexts(j.doc.Find(".job-details__benefits li"))
}

func (j *Jobberman) Pricing() map[string]string {
	salary := htmlutil.CleanText(j.doc.Find(".job-header__salary").First().Text())
	if salary == "" {
		return nil
	}
	return map[string]string{"salary": salary}
}
