package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

const defaultNavigationTimeout = 30 * time.Second

// PlaywrightSession drives a single headless Chromium process. Sites render
// listings and postings client-side, so a real browser engine is the default
// transport; one long-lived process avoids repeated cold launches.
type PlaywrightSession struct {
	mu        sync.Mutex
	logger    zerolog.Logger
	pw        *playwright.Playwright
	browser   playwright.Browser
	page      playwright.Page
	startedAt time.Time
}

func NewPlaywrightSession(logger zerolog.Logger) *PlaywrightSession {
	return &PlaywrightSession{logger: logger}
}

// Start launches headless Chromium. Idempotent: a live browser is reused
// silently. A launch failure is fatal for the run and is returned unwrapped
// of any retry.
func (s *PlaywrightSession) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil && s.browser.IsConnected() {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright driver: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--start-maximized",
			"--log-level=3",
		},
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("launch chromium: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("open page: %w", err)
	}

	s.pw = pw
	s.browser = browser
	s.page = page
	s.startedAt = time.Now()
	s.logger.Debug().Time("started_at", s.startedAt).Msg("browser session started")
	return nil
}

// Navigate loads url on the shared page, blocking until the DOM content of
// the initial load is ready.
func (s *PlaywrightSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return ErrNotStarted
	}

	timeout := defaultNavigationTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// PageSource returns the rendered HTML of the current page.
func (s *PlaywrightSession) PageSource() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return "", ErrNotStarted
	}
	content, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("read page source: %w", err)
	}
	return content, nil
}

// StartedAt reports when the current browser process came up. Zero when the
// session is down.
func (s *PlaywrightSession) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Shutdown terminates the browser process and driver. A no-op when Start
// was never called or the session is already down.
func (s *PlaywrightSession) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}

	var firstErr error
	if err := s.browser.Close(); err != nil {
		firstErr = fmt.Errorf("close browser: %w", err)
	}
	if err := s.pw.Stop(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("stop playwright driver: %w", err)
	}

	s.pw = nil
	s.browser = nil
	s.page = nil
	s.startedAt = time.Time{}
	s.logger.Debug().Msg("browser session shut down")
	return firstErr
}
