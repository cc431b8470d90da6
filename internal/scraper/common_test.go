package scraper

import (
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/medmaha/dokoola-scraper/internal/htmlutil"
)

// mustDoc parses and sanitizes a fixture page the way the orchestrator does
// before handing it to an extractor.
func mustDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := htmlutil.Parse(page)
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://example.com/path/page"
	cases := []struct {
		href string
		want string
	}{
		{"/jobs/1", "https://example.com/jobs/1"},
		{"https://other.com/a", "https://other.com/a"},
		{"//cdn.example.com/asset", "https://cdn.example.com/asset"},
	}

	for _, tc := range cases {
		got := absoluteURL(base, tc.href)
		if got != tc.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []string{
		"2026-01-02",
		"2026-01-02T15:04:05-0700",
		"02 January 2026",
		"Jan 2, 2026",
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format(time.RFC3339),
	}

	for _, value := range cases {
		parsed, err := parseDate(value)
		if err != nil {
			t.Fatalf("expected parse success for %s: %v", value, err)
		}
		if parsed.IsZero() {
			t.Fatalf("parsed time should not be zero for %s", value)
		}
	}

	if _, err := parseDate("about a week ago"); err == nil {
		t.Fatalf("expected failure for unsupported format")
	}
}

func TestFindJobPosting(t *testing.T) {
	data, err := decodeJSONLD(`{
		"@graph": [
			{"@type": "WebSite", "name": "board"},
			{"@type": "JobPosting", "title": "Teacher"}
		]
	}`)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	posting, ok := findJobPosting(data)
	if !ok {
		t.Fatalf("expected to find a posting inside @graph")
	}
	if jsonString(posting["title"]) != "Teacher" {
		t.Fatalf("unexpected posting: %v", posting)
	}

	if _, ok := findJobPosting(map[string]any{"@type": "Article"}); ok {
		t.Fatalf("non-posting nodes must not match")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("Accounting, Finance / Banking; ")
	want := []string{"Accounting", "Finance", "Banking"}
	if len(got) != len(want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
