// Package fetch retrieves pages from the scraped sources with bounded
// retries and a fixed post-success throttle.
package fetch

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrExhausted is returned once every attempt for a URL has failed. Callers
// treat it as "no data" for that URL.
var ErrExhausted = errors.New("fetch attempts exhausted")

// Fetcher returns the body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Backoff is the wait before retry attempt n (n >= 1): 2^n seconds.
func Backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// Options configure the retrying fetchers.
type Options struct {
	MaxAttempts int
	Timeout     time.Duration
	Delay       time.Duration
	UserAgent   string
	Sleep       SleepFunc
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Sleep == nil {
		o.Sleep = Sleep
	}
	return o
}

// DefaultUserAgent mimics a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// attemptFunc performs a single fetch attempt.
type attemptFunc func(ctx context.Context, url string) ([]byte, error)

// retry runs fn up to opts.MaxAttempts times. Attempt n > 0 waits Backoff(n)
// first; a successful attempt is followed by opts.Delay.
func retry(ctx context.Context, opts Options, url string, fn attemptFunc, onFail func(attempt int, err error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := opts.Sleep(ctx, Backoff(attempt)); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := fn(ctx, url)
		if err == nil {
			if err := opts.Sleep(ctx, opts.Delay); err != nil {
				return nil, err
			}
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if onFail != nil {
			onFail(attempt, err)
		}
	}
	return nil, errors.Mark(errors.Wrapf(lastErr, "fetch %s after %d attempts", url, opts.MaxAttempts), ErrExhausted)
}
