package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
)

// PageStore persists fetched pages by URL.
type PageStore interface {
	GetPage(ctx context.Context, url string) ([]byte, bool, error)
	PutPage(ctx context.Context, url string, body []byte, ttl time.Duration) error
}

// CachedFetcher serves pages from a PageStore and falls through to the
// wrapped Fetcher on a miss. Store errors are logged and never fail a fetch.
type CachedFetcher struct {
	next   Fetcher
	store  PageStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFetcher wraps next. Only wrap fetchers for pages that do not
// change once published, such as finished-game box scores.
func NewCachedFetcher(next Fetcher, store PageStore, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logging.OrNop(logger).Named("fetch.cache"),
	}
}

// Fetch implements Fetcher.
func (c *CachedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok, err := c.store.GetPage(ctx, url)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("url", url), zap.Error(err))
	} else if ok {
		c.logger.Debug("cache hit", zap.String("url", url))
		return body, nil
	}

	body, err = c.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := c.store.PutPage(ctx, url, body, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("url", url), zap.Error(err))
	}
	return body, nil
}
