package htmlutil

import (
	"strings"
	"testing"
)

func TestSanitizeStripsNonContentMarkup(t *testing.T) {
	page := `
<!doctype html>
<html>
<head><title>Job</title><meta charset="utf-8"><style>body{}</style></head>
<body>
  <nav><a href="/">home</a></nav>
  <script>alert("x")</script>
  <form><input name="q"></form>
  <div class="content" style="color:red" onclick="track()">
    <h1>Accountant</h1>
    <img src="logo.png">
    <p>Great role.</p>
    <span></span>
  </div>
</body>
</html>`

	doc, err := Parse(page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, selector := range []string{"head", "nav", "script", "form", "img", "style", "span"} {
		if doc.Find(selector).Length() != 0 {
			t.Fatalf("expected %q to be removed", selector)
		}
	}

	content := doc.Find(".content")
	if content.Length() != 1 {
		t.Fatalf("content element should survive sanitization")
	}
	if _, ok := content.Attr("style"); ok {
		t.Fatalf("style attribute should be stripped")
	}
	if _, ok := content.Attr("onclick"); ok {
		t.Fatalf("event handler attribute should be stripped")
	}
	if _, ok := content.Attr("class"); !ok {
		t.Fatalf("class attribute should survive")
	}
	if doc.Find("h1").Text() != "Accountant" {
		t.Fatalf("content text should survive, got %q", doc.Find("h1").Text())
	}
}

func TestSanitizeKeepsStructuredData(t *testing.T) {
	page := `
<html>
<head>
  <script type="application/ld+json">{"@type": "JobPosting", "title": "Driver"}</script>
  <script src="app.js"></script>
</head>
<body><h1>Driver</h1></body>
</html>`

	doc, err := Parse(page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	scripts := doc.Find("script")
	if scripts.Length() != 1 {
		t.Fatalf("expected exactly the ld+json script, got %d scripts", scripts.Length())
	}
	if !strings.Contains(scripts.Text(), "JobPosting") {
		t.Fatalf("ld+json payload lost: %q", scripts.Text())
	}
}

func TestSanitizeRemovesNestedEmptyLeaves(t *testing.T) {
	page := `<html><body><div><section><span></span></section></div><p>kept</p></body></html>`

	doc, err := Parse(page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Find("div, section, span").Length() != 0 {
		t.Fatalf("empty subtree should be removed entirely")
	}
	if doc.Find("p").Text() != "kept" {
		t.Fatalf("non-empty element should survive")
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText("  Senior&nbsp;Engineer \n\t (Remote)  ")
	if got != "Senior Engineer (Remote)" {
		t.Fatalf("unexpected clean text: %q", got)
	}
}

func TestFoldText(t *testing.T) {
	if got := FoldText("Chargé de Programme"); got != "charge de programme" {
		t.Fatalf("unexpected folded text: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 20); got != "short" {
		t.Fatalf("short values must pass through, got %q", got)
	}
	got := Truncate("one two three four five six seven", 15)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if len(got) > 18 {
		t.Fatalf("truncated value too long: %q", got)
	}
}
