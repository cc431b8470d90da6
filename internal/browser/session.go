package browser

import (
	"context"
	"errors"
)

var (
	// ErrNotStarted is returned when a page is requested before Start.
	ErrNotStarted = errors.New("browser session not started")
	// ErrNoPage is returned when no navigation has happened yet.
	ErrNoPage = errors.New("no page loaded")
)

// Session is the one shared fetch path for a scraping run. Exactly one live
// session exists per process; the run coordinator owns its lifecycle and
// injects it into every orchestrator, so the "only one browser, ever"
// invariant is enforced by ownership rather than global state.
//
// Navigate blocks until the page's initial load completes. Concurrent
// Navigate calls are not supported; orchestrators navigate sequentially and
// hand workers a PageSource snapshot, never the session itself.
type Session interface {
	// Start brings the session up. Calling Start on a live session is a
	// no-op that reuses the existing instance.
	Start(ctx context.Context) error

	// Navigate loads url and leaves it as the current page.
	Navigate(ctx context.Context, url string) error

	// PageSource returns the rendered HTML of the current page.
	PageSource() (string, error)

	// Shutdown releases the session. Safe to call without a prior Start.
	Shutdown() error
}
