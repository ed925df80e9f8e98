package scrape

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"scraper/packages/domain"
	"scraper/packages/metrics"
	"scraper/packages/sink"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	// Pacing is the blocking sleep between consecutive jobs in one stream,
	// applied whether the previous job succeeded or failed.
	Pacing time.Duration
	// Parallel runs one independent fetch stream per category. Each stream
	// stays sequential and paced on its own, so the per-stream request rate
	// against the source site is unchanged.
	Parallel bool
}

// Orchestrator expands a season range and category set into the full job
// matrix and runs it to completion. One bad job never aborts the batch; its
// failure lands in the summary so the caller can re-run just that subset.
type Orchestrator struct {
	runner *Runner
	out    sink.Sink
	cfg    Config
}

func New(runner *Runner, out sink.Sink, cfg Config) *Orchestrator {
	return &Orchestrator{runner: runner, out: out, cfg: cfg}
}

func (o *Orchestrator) Run(ctx context.Context, startYear, endYear int, cats []domain.Category) domain.Summary {
	summary := domain.Summary{}

	if o.cfg.Parallel && len(cats) > 1 {
		var mu sync.Mutex
		record := func(outcome domain.JobOutcome) {
			mu.Lock()
			defer mu.Unlock()
			summary.Record(outcome)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, cat := range cats {
			cat := cat
			g.Go(func() error {
				o.runStream(gctx, startYear, endYear, []domain.Category{cat}, record)
				return nil
			})
		}
		_ = g.Wait()
		return summary
	}

	o.runStream(ctx, startYear, endYear, cats, summary.Record)
	return summary
}

// runStream walks seasons in ascending order, categories in declared order
// within each season, pausing between jobs. Once the context is cancelled the
// remaining jobs are recorded as skipped; output already written stays put.
func (o *Orchestrator) runStream(ctx context.Context, startYear, endYear int, cats []domain.Category, record func(domain.JobOutcome)) {
	first := true
	for season := startYear; season <= endYear; season++ {
		for _, cat := range cats {
			if ctx.Err() != nil {
				record(domain.JobOutcome{Season: season, Category: cat, Skipped: true})
				continue
			}
			if !first {
				select {
				case <-ctx.Done():
					record(domain.JobOutcome{Season: season, Category: cat, Skipped: true})
					continue
				case <-time.After(o.cfg.Pacing):
				}
			}
			first = false
			record(o.runOne(ctx, season, cat))
		}
	}
}

func (o *Orchestrator) runOne(ctx context.Context, season int, cat domain.Category) domain.JobOutcome {
	slog.Info("Job starting", "season", season, "category", cat)

	rows, err := o.runner.Run(ctx, season, cat)
	if err != nil {
		kind := classify(err)
		slog.Error("Job failed", "season", season, "category", cat, "kind", kind, "error", err)
		metrics.JobsTotal.WithLabelValues(string(cat), string(kind)).Inc()
		return domain.JobOutcome{Season: season, Category: cat, Kind: kind, Message: err.Error()}
	}

	if err := o.out.Write(ctx, season, cat, rows); err != nil {
		slog.Error("Job output write failed", "season", season, "category", cat, "error", err)
		metrics.JobsTotal.WithLabelValues(string(cat), string(domain.FailureWrite)).Inc()
		return domain.JobOutcome{Season: season, Category: cat, Kind: domain.FailureWrite, Message: err.Error()}
	}

	slog.Info("Job complete", "season", season, "category", cat, "rows", len(rows))
	metrics.JobsTotal.WithLabelValues(string(cat), "success").Inc()
	metrics.RowsWritten.WithLabelValues(string(cat)).Add(float64(len(rows)))
	return domain.JobOutcome{Season: season, Category: cat, Rows: len(rows)}
}
