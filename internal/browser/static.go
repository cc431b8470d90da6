package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"

	"github.com/medmaha/dokoola-scraper/internal/network"
)

// StaticSession fetches pages over plain HTTP with a browser TLS
// fingerprint. Boards that render job postings server-side do not need a
// JS engine, and the orchestrator cannot tell the two sessions apart.
type StaticSession struct {
	mu        sync.Mutex
	logger    zerolog.Logger
	rotator   *network.Rotator
	client    *network.Client
	source    string
	startedAt time.Time
}

func NewStaticSession(logger zerolog.Logger, rotator *network.Rotator) *StaticSession {
	return &StaticSession{logger: logger, rotator: rotator}
}

// Start builds the HTTP client. Idempotent.
func (s *StaticSession) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}

	client, err := network.NewClient(s.rotator)
	if err != nil {
		return fmt.Errorf("build http client: %w", err)
	}
	s.client = client
	s.startedAt = time.Now()
	s.logger.Debug().Time("started_at", s.startedAt).Msg("static session started")
	return nil
}

// Navigate fetches url and keeps its body as the current page.
func (s *StaticSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return ErrNotStarted
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("accept-language", "en-US,en;q=0.9")

	resp, err := s.client.Get(req)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	s.source = string(body)
	return nil
}

// PageSource returns the body of the last fetched page.
func (s *StaticSession) PageSource() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return "", ErrNotStarted
	}
	if s.source == "" {
		return "", ErrNoPage
	}
	return s.source, nil
}

// Shutdown drops the client. Safe without a prior Start.
func (s *StaticSession) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client = nil
	s.source = ""
	s.startedAt = time.Time{}
	return nil
}
