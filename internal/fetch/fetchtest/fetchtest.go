// Package fetchtest provides an in-memory Fetcher for tests.
package fetchtest

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/fortuna/acbscout/internal/fetch"
)

// Pages serves fixed bodies by URL. Unknown URLs fail with an error marked
// fetch.ErrExhausted, like a real fetcher that ran out of attempts.
type Pages struct {
	mu       sync.Mutex
	bodies   map[string][]byte
	requests []string
}

// New returns a Pages serving bodies.
func New(bodies map[string]string) *Pages {
	p := &Pages{bodies: make(map[string][]byte, len(bodies))}
	for url, body := range bodies {
		p.bodies[url] = []byte(body)
	}
	return p
}

// Set adds or replaces a page.
func (p *Pages) Set(url, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies[url] = []byte(body)
}

// Fetch implements fetch.Fetcher.
func (p *Pages) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, url)
	body, ok := p.bodies[url]
	if !ok {
		return nil, errors.Mark(errors.Newf("no page for %s", url), fetch.ErrExhausted)
	}
	return body, nil
}

// Requests returns the URLs fetched so far, in order.
func (p *Pages) Requests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}

// NoSleep is a fetch.SleepFunc that returns immediately.
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
