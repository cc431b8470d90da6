package network

import (
	"errors"
	"net/url"
	"sync"
	"time"
)

var ErrNoProxies = errors.New("no proxies available")

type proxyEntry struct {
	url         *url.URL
	bannedUntil time.Time
}

// Rotator hands out proxies round-robin, sitting out any proxy that a
// board recently rate-limited or blocked.
type Rotator struct {
	mu          sync.Mutex
	entries     []*proxyEntry
	banDuration time.Duration
	next        int
}

func NewRotator(raw []string, banDuration time.Duration) (*Rotator, error) {
	r := &Rotator{banDuration: banDuration}
	for _, p := range raw {
		u, err := url.Parse(p)
		if err != nil {
			return nil, err
		}
		r.entries = append(r.entries, &proxyEntry{url: u})
	}
	return r, nil
}

func (r *Rotator) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Rotator) Next() (*url.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return nil, ErrNoProxies
	}

	now := time.Now()
	for tried := 0; tried < len(r.entries); tried++ {
		entry := r.entries[r.next]
		r.next = (r.next + 1) % len(r.entries)

		if entry.bannedUntil.IsZero() || now.After(entry.bannedUntil) {
			entry.bannedUntil = time.Time{}
			return entry.url, nil
		}
	}
	return nil, ErrNoProxies
}

// Report records the status a proxy got back from a board. Forbidden and
// rate-limit responses put the proxy on the bench for banDuration.
func (r *Rotator) Report(proxy *url.URL, status int) {
	if proxy == nil || !banningStatus(status) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.url.String() == proxy.String() {
			entry.bannedUntil = time.Now().Add(r.banDuration)
			return
		}
	}
}

func banningStatus(status int) bool {
	return status == 403 || status == 407 || status == 429
}
