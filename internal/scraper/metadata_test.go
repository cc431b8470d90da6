package scraper

import (
	"strings"
	"testing"

	"github.com/medmaha/dokoola-scraper/internal/models"
)

func TestShortDescriptionFromHTML(t *testing.T) {
	description := "<div><p>Lead the finance team through the yearly audit.</p><p>Other duties apply.</p></div>"
	got := ShortDescription(description)
	if got != "Lead the finance team through the yearly audit." {
		t.Fatalf("unexpected short description: %q", got)
	}
}

func TestShortDescriptionTruncatesLongText(t *testing.T) {
	got := ShortDescription(strings.Repeat("word ", 100))
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation, got %q", got)
	}
	if len(got) > shortDescriptionLimit+3 {
		t.Fatalf("short description too long: %d bytes", len(got))
	}
}

func TestApplyShortDescriptionsIsIdempotent(t *testing.T) {
	jobs := []models.ScrapedJob{
		{
			URL:         "https://example.test/1",
			Title:       "Engineer",
			Description: "<p>Build the pipeline. Keep it running.</p>",
			ThirdPartyMetadata: map[string]string{
				models.MetaSiteName: "fakeboard",
			},
		},
	}

	ApplyShortDescriptions(jobs)
	first := jobs[0].ThirdPartyMetadata[models.MetaShortDescription]
	if first == "" {
		t.Fatalf("expected a derived short description")
	}

	ApplyShortDescriptions(jobs)
	second := jobs[0].ThirdPartyMetadata[models.MetaShortDescription]
	if first != second {
		t.Fatalf("post-pass must be idempotent: %q vs %q", first, second)
	}

	if jobs[0].Description != "<p>Build the pipeline. Keep it running.</p>" {
		t.Fatalf("core fields must not change: %q", jobs[0].Description)
	}
}

func TestApplyShortDescriptionsSkipsEmptyDescriptions(t *testing.T) {
	jobs := []models.ScrapedJob{{URL: "https://example.test/2", Description: "  "}}
	ApplyShortDescriptions(jobs)
	if _, ok := jobs[0].ThirdPartyMetadata[models.MetaShortDescription]; ok {
		t.Fatalf("no summary should be derived from an empty description")
	}
}
