package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
)

// BrowserFetcher renders pages in headless Chrome. Used for sources whose
// tables are filled in by JavaScript.
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	opts     Options
	logger   *zap.Logger
}

// NewBrowserFetcher starts a Chrome allocator. Close must be called to
// release it.
func NewBrowserFetcher(opts Options, logger *zap.Logger) *BrowserFetcher {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &BrowserFetcher{
		allocCtx: allocCtx,
		cancel:   cancel,
		opts:     opts,
		logger:   logging.OrNop(logger).Named("fetch.browser"),
	}
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Fetch implements Fetcher.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return retry(ctx, b.opts, url, b.render, func(attempt int, err error) {
		b.logger.Warn("render attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	})
}

func (b *BrowserFetcher) render(ctx context.Context, url string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.opts.Timeout)
	defer cancelTimeout()

	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, errors.Wrap(err, "chromedp")
	}
	if html == "" {
		return nil, errors.New("empty document")
	}
	return []byte(html), nil
}
