package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// fakeSession serves canned pages keyed by URL, recording every navigation.
type fakeSession struct {
	mu          sync.Mutex
	pages       map[string]string
	failNav     map[string]error
	current     string
	started     bool
	shutdowns   int
	starts      int
	navigations []string
}

func newFakeSession(pages map[string]string) *fakeSession {
	return &fakeSession{pages: pages, failNav: map[string]error{}}
}

func (f *fakeSession) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.started = true
	return nil
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started {
		return errors.New("session not started")
	}
	if err := f.failNav[url]; err != nil {
		return err
	}
	f.navigations = append(f.navigations, url)
	f.current = url
	return nil
}

func (f *fakeSession) PageSource() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	source, ok := f.pages[f.current]
	if !ok {
		return "", fmt.Errorf("no page for %s", f.current)
	}
	return source, nil
}

func (f *fakeSession) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	f.started = false
	return nil
}

const fakeBase = "https://jobs.example.test"

func listingPage(hrefs ...string) string {
	page := "<html><body><ul>"
	for _, href := range hrefs {
		page += fmt.Sprintf(`<li><a class="job-card__link" href=%q>job</a></li>`, href)
	}
	return page + "</ul></body></html>"
}

func detailPage(title, company string) string {
	titleMarkup := ""
	if title != "" {
		titleMarkup = fmt.Sprintf(`<h1 class="job-header__title">%s</h1>`, title)
	}
	return fmt.Sprintf(`
<html><body>
  <div class="job-header">
    %s
    <div class="job-header__company"><a href="#">%s</a></div>
    <div class="job-header__location">Banjul</div>
    <div class="job-header__meta"><span class="job-type">Full Time</span></div>
  </div>
  <div class="job-details__description"><p>Do the work.</p></div>
</body></html>`, titleMarkup, company)
}

func testConfig(maxJobs int) SiteConfig {
	return SiteConfig{
		Site:          "fakeboard",
		BaseURL:       fakeBase,
		ListingPath:   "/jobs",
		LinkSelector:  "a.job-card__link",
		MaxJobs:       maxJobs,
		Workers:       4,
		PublishStatus: "draft",
		NewExtractor:  NewJobberman,
	}
}

func TestRunScrapesAllValidPages(t *testing.T) {
	session := newFakeSession(map[string]string{
		fakeBase + "/jobs":   listingPage("/jobs/1", "/jobs/2"),
		fakeBase + "/jobs/1": detailPage("Engineer", "Acme"),
		fakeBase + "/jobs/2": detailPage("Driver", "Haulage Co"),
	})

	sc := New(testConfig(10), session, zerolog.Nop())
	jobs, err := sc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	for _, job := range jobs {
		if job.Title == "" || job.Company() == "" || job.Description == "" {
			t.Fatalf("incomplete record: %+v", job)
		}
		if job.ThirdPartyMetadata["publish_status"] != "draft" {
			t.Fatalf("publish status hint missing: %v", job.ThirdPartyMetadata)
		}
	}
}

func TestRunBoundsLinksPreservingListingOrder(t *testing.T) {
	session := newFakeSession(map[string]string{
		fakeBase + "/jobs":   listingPage("/jobs/1", "/jobs/2", "/jobs/3", "/jobs/4", "/jobs/5"),
		fakeBase + "/jobs/1": detailPage("A", "C1"),
		fakeBase + "/jobs/2": detailPage("B", "C2"),
		fakeBase + "/jobs/3": detailPage("C", "C3"),
		fakeBase + "/jobs/4": detailPage("D", "C4"),
		fakeBase + "/jobs/5": detailPage("E", "C5"),
	})

	sc := New(testConfig(3), session, zerolog.Nop())
	jobs, err := sc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs with max_jobs=3, got %d", len(jobs))
	}

	// First navigation is the listing; detail visits follow listing order.
	want := []string{
		fakeBase + "/jobs",
		fakeBase + "/jobs/1",
		fakeBase + "/jobs/2",
		fakeBase + "/jobs/3",
	}
	if len(session.navigations) != len(want) {
		t.Fatalf("unexpected navigations: %v", session.navigations)
	}
	for i, url := range want {
		if session.navigations[i] != url {
			t.Fatalf("navigation %d = %q, want %q", i, session.navigations[i], url)
		}
	}
}

func TestRunDeduplicatesRepeatedHrefs(t *testing.T) {
	session := newFakeSession(map[string]string{
		fakeBase + "/jobs":   listingPage("/jobs/1", "/jobs/1", "/jobs/2"),
		fakeBase + "/jobs/1": detailPage("Engineer", "Acme"),
		fakeBase + "/jobs/2": detailPage("Driver", "Haulage Co"),
	})

	sc := New(testConfig(10), session, zerolog.Nop())
	jobs, err := sc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	visits := 0
	for _, url := range session.navigations {
		if url == fakeBase+"/jobs/1" {
			visits++
		}
	}
	if visits != 1 {
		t.Fatalf("duplicate href should be fetched once, got %d visits", visits)
	}
}

func TestRunIsolatesPerPageFailures(t *testing.T) {
	session := newFakeSession(map[string]string{
		fakeBase + "/jobs":   listingPage("/jobs/1", "/jobs/2", "/jobs/3", "/jobs/4", "/jobs/5"),
		fakeBase + "/jobs/1": detailPage("A", "C1"),
		fakeBase + "/jobs/2": detailPage("B", "C2"),
		fakeBase + "/jobs/4": detailPage("D", "C4"),
		fakeBase + "/jobs/5": detailPage("E", "C5"),
	})
	session.failNav[fakeBase+"/jobs/3"] = errors.New("connection reset")

	sc := New(testConfig(10), session, zerolog.Nop())
	jobs, err := sc.Run(context.Background())
	if err != nil {
		t.Fatalf("per-page failure must not abort the run: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected 4 jobs around the failed page, got %d", len(jobs))
	}

	failures := sc.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", len(failures))
	}
	if failures[0].URL != fakeBase+"/jobs/3" {
		t.Fatalf("unexpected failure url: %q", failures[0].URL)
	}
}

func TestRunListingFailureIsFatal(t *testing.T) {
	session := newFakeSession(map[string]string{})
	session.failNav[fakeBase+"/jobs"] = errors.New("timeout")

	sc := New(testConfig(10), session, zerolog.Nop())
	if _, err := sc.Run(context.Background()); err == nil {
		t.Fatalf("listing failure must abort the run")
	}
}

func TestRunEmptyListingReturnsNoError(t *testing.T) {
	session := newFakeSession(map[string]string{
		fakeBase + "/jobs": "<html><body><p>nothing here</p></body></html>",
	})

	sc := New(testConfig(10), session, zerolog.Nop())
	jobs, err := sc.Run(context.Background())
	if err != nil {
		t.Fatalf("empty listing is not an error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}

func TestRunEndToEndScenario(t *testing.T) {
	// Three anchors; B's detail page has no title, so only A and C produce
	// records, while all three links count as processed.
	session := newFakeSession(map[string]string{
		fakeBase + "/jobs":   listingPage("/jobs/a", "/jobs/b", "/jobs/c"),
		fakeBase + "/jobs/a": detailPage("Accountant", "Ledger Ltd"),
		fakeBase + "/jobs/b": detailPage("", "Nameless Co"),
		fakeBase + "/jobs/c": detailPage("Clerk", "Filing Co"),
	})

	sc := New(testConfig(10), session, zerolog.Nop())
	jobs, err := sc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected exactly 2 records, got %d", len(jobs))
	}
	for _, suffix := range []string{"/jobs/a", "/jobs/b", "/jobs/c"} {
		if !sc.Processed(fakeBase + suffix) {
			t.Fatalf("%s should be marked processed", suffix)
		}
	}
	if len(sc.Failures()) != 0 {
		t.Fatalf("an invalid page is not a failure: %v", sc.Failures())
	}
}

func TestRunStartIsIdempotentAcrossRuns(t *testing.T) {
	session := newFakeSession(map[string]string{
		fakeBase + "/jobs": listingPage(),
	})

	sc := New(testConfig(10), session, zerolog.Nop())
	if _, err := sc.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	sc2 := New(testConfig(10), session, zerolog.Nop())
	if _, err := sc2.Run(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if session.starts != 2 {
		t.Fatalf("both runs should call Start, got %d", session.starts)
	}
}

func TestCollectLinksResolvesRelativeHrefs(t *testing.T) {
	links, err := CollectLinks(listingPage("/jobs/1", "https://other.test/x", ""), fakeBase, "a.job-card__link", 0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("empty hrefs must be dropped, got %v", links)
	}
	if links[0] != fakeBase+"/jobs/1" {
		t.Fatalf("relative href not resolved: %q", links[0])
	}
	if links[1] != "https://other.test/x" {
		t.Fatalf("absolute href mangled: %q", links[1])
	}
}
