// Package scrape
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scraper/packages/domain"
	"scraper/packages/extract"
	"scraper/packages/fetch"

	"github.com/PuerkitoBio/goquery"
)

type JobConfig struct {
	// MaxAttempts bounds fetch attempts per job, first try included.
	MaxAttempts int
	// Backoff is the delay before the first retry; it doubles each retry.
	Backoff time.Duration
	// ForceRendered routes every category through the rendered fetcher, for
	// when the source site starts requiring script execution everywhere.
	ForceRendered bool
}

// Runner executes one (season, category) job: fetch with retry, then extract.
// Transport failures are transient and retried; a layout mismatch is
// structural, so it fails immediately rather than hammering a site that may
// already be throttling us.
type Runner struct {
	static   fetch.Fetcher
	rendered fetch.Fetcher
	cfg      JobConfig
}

func NewRunner(static, rendered fetch.Fetcher, cfg JobConfig) *Runner {
	return &Runner{static: static, rendered: rendered, cfg: cfg}
}

func (r *Runner) Run(ctx context.Context, season int, cat domain.Category) ([]domain.Row, error) {
	def, ok := domain.Definitions[cat]
	if !ok {
		return nil, fmt.Errorf("unknown category: %s", cat)
	}

	kind := def.Kind
	if r.cfg.ForceRendered {
		kind = domain.RenderedPage
	}
	fetcher := r.static
	if kind == domain.RenderedPage {
		fetcher = r.rendered
	}
	url := def.URL(season)

	var html string
	var err error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		html, err = fetcher.Fetch(ctx, url, def.WaitSelector)
		if err == nil {
			break
		}
		if attempt == r.cfg.MaxAttempts || ctx.Err() != nil {
			return nil, fmt.Errorf("fetch failed after %d attempts: %w", attempt, err)
		}
		delay := r.cfg.Backoff << (attempt - 1)
		slog.Warn("Fetch failed, backing off",
			"season", season, "category", cat, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: unparsable document: %v", extract.ErrLayout, err)
	}

	rows, err := extract.ForCategory(cat).Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s for %d: %w", cat, season, err)
	}
	return rows, nil
}

// classify maps a job error onto the failure taxonomy. This is the single
// place errors are told apart; extractors and fetchers only wrap sentinels.
func classify(err error) domain.FailureKind {
	switch {
	case errors.Is(err, fetch.ErrRenderTimeout):
		return domain.FailureRenderTimeout
	case errors.Is(err, extract.ErrLayout):
		return domain.FailureLayout
	default:
		return domain.FailureTransport
	}
}
