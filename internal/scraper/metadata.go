package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/medmaha/dokoola-scraper/internal/htmlutil"
	"github.com/medmaha/dokoola-scraper/internal/models"
)

// shortDescriptionLimit bounds the derived summary length.
const shortDescriptionLimit = 180

// ApplyShortDescriptions derives a plain-text summary from each record's
// description and writes it into ThirdPartyMetadata. Core job fields are
// never touched, and the derivation is a pure function of the description,
// so reapplying it is a no-op.
func ApplyShortDescriptions(jobs []models.ScrapedJob) {
	for i := range jobs {
		short := ShortDescription(jobs[i].Description)
		if short == "" {
			continue
		}
		if jobs[i].ThirdPartyMetadata == nil {
			jobs[i].ThirdPartyMetadata = map[string]string{}
		}
		jobs[i].ThirdPartyMetadata[models.MetaShortDescription] = short
	}
}

// ShortDescription reduces a description, HTML or plain, to its first
// paragraph of text, truncated on a word boundary.
func ShortDescription(description string) string {
	text := descriptionText(description)
	if text == "" {
		return ""
	}
	if idx := strings.Index(text, ". "); idx > 0 && idx+1 <= shortDescriptionLimit {
		return text[:idx+1]
	}
	return htmlutil.Truncate(text, shortDescriptionLimit)
}

func descriptionText(description string) string {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return htmlutil.CleanText(trimmed)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return htmlutil.CleanText(trimmed)
	}
	if first := doc.Find("p").First(); first.Length() > 0 {
		if text := htmlutil.CleanText(first.Text()); text != "" {
			return text
		}
	}
	return htmlutil.CleanText(doc.Text())
}
