package fetch

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
)

// HTTPFetcher issues plain GET requests through a resty client.
type HTTPFetcher struct {
	client *resty.Client
	opts   Options
	logger *zap.Logger
}

// NewHTTPFetcher creates a fetcher with the browser-like header set used for
// every source.
func NewHTTPFetcher(opts Options, logger *zap.Logger) *HTTPFetcher {
	opts = opts.withDefaults()

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")

	return &HTTPFetcher{
		client: client,
		opts:   opts,
		logger: logging.OrNop(logger).Named("fetch"),
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return retry(ctx, f.opts, url, f.get, func(attempt int, err error) {
		f.logger.Warn("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", f.opts.MaxAttempts),
			zap.Error(err))
	})
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	if !resp.IsSuccess() {
		return nil, errors.Newf("unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
