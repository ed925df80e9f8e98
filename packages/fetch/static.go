package fetch

import (
	"context"
	"fmt"
	"time"

	"scraper/packages/metrics"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Static fetches pages with a plain HTTP client. Good enough for pages whose
// tables are present in the initial document.
type Static struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewStatic builds a static fetcher. minInterval is the minimum gap between
// consecutive requests; zero disables the limiter.
func NewStatic(timeout, minInterval time.Duration, userAgent string) *Static {
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Referer":         "https://www.espn.com/",
		})

	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Static{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (s *Static) Fetch(ctx context.Context, url, waitFor string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	metrics.FetchAttempts.WithLabelValues("static").Inc()

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	metrics.FetchDuration.WithLabelValues("static").Observe(time.Since(start).Seconds())

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("get %s: bad status code: %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}
