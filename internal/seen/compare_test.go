package seen

import (
	"testing"

	"github.com/medmaha/dokoola-scraper/internal/models"
)

func job(url string) models.ScrapedJob {
	return models.ScrapedJob{URL: url, Title: "Job", Description: "desc"}
}

func TestKeyRequiresURL(t *testing.T) {
	if _, ok := Key(models.ScrapedJob{Title: "No URL"}); ok {
		t.Fatalf("records without a URL have no upsert identity")
	}

	key, ok := Key(job("https://Example.com/Jobs/1"))
	if !ok {
		t.Fatalf("expected a key")
	}
	if key != "https://example.com/jobs/1" {
		t.Fatalf("key should be case-folded: %q", key)
	}
}

func TestDiffExcludesSeenURLs(t *testing.T) {
	newJobs := []models.ScrapedJob{
		job("https://example.com/a"),
		job("https://example.com/b"),
		job("https://example.com/b"),
		{Title: "invalid"},
	}
	seenJobs := []models.ScrapedJob{
		job("https://example.com/a"),
	}

	unseen, stats := Diff(newJobs, seenJobs)
	if len(unseen) != 1 {
		t.Fatalf("expected 1 unseen job, got %d", len(unseen))
	}
	if unseen[0].URL != "https://example.com/b" {
		t.Fatalf("unexpected unseen job: %q", unseen[0].URL)
	}
	if stats.InvalidNew != 1 {
		t.Fatalf("expected 1 invalid new record, got %d", stats.InvalidNew)
	}
	if stats.Unseen != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMergeKeepsExistingEntries(t *testing.T) {
	existing := []models.ScrapedJob{
		{URL: "https://example.com/a", Title: "Old Title", Description: "old"},
	}
	input := []models.ScrapedJob{
		{URL: "https://example.com/a", Title: "New Title", Description: "new"},
		job("https://example.com/c"),
	}

	merged, stats := Merge(existing, input)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged jobs, got %d", len(merged))
	}
	if merged[0].Title != "Old Title" {
		t.Fatalf("existing entries must win collisions: %q", merged[0].Title)
	}
	if stats.Added != 1 || stats.TotalOut != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
