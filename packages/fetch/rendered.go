package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scraper/packages/metrics"

	"github.com/chromedp/chromedp"
)

// Rendered fetches pages with a headless browser so tables injected by page
// scripts are present in the returned document. Each fetch runs in its own
// browser context so a cancelled batch never leaks a Chrome process.
type Rendered struct {
	wait      time.Duration
	userAgent string
}

// NewRendered builds a rendered fetcher. wait bounds how long a fetch blocks
// for the target element to materialize after navigation.
func NewRendered(wait time.Duration, userAgent string) *Rendered {
	return &Rendered{wait: wait, userAgent: userAgent}
}

func (r *Rendered) Fetch(ctx context.Context, url, waitFor string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.UserAgent(r.userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	waitCtx, cancelWait := context.WithTimeout(tabCtx, r.wait)
	defer cancelWait()

	start := time.Now()
	metrics.FetchAttempts.WithLabelValues("rendered").Inc()

	var html string
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(waitFor, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: %q on %s", ErrRenderTimeout, waitFor, url)
		}
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	metrics.FetchDuration.WithLabelValues("rendered").Observe(time.Since(start).Seconds())

	return html, nil
}
