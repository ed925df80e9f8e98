// Package sink
package sink

import (
	"context"

	"scraper/packages/domain"
)

// Sink persists one season's rows for one category. Writes must overwrite any
// prior content for the same (season, category) pair cleanly.
type Sink interface {
	Write(ctx context.Context, season int, cat domain.Category, rows []domain.Row) error
}

// Multi fans a write out to several sinks, stopping at the first failure.
type Multi []Sink

func (m Multi) Write(ctx context.Context, season int, cat domain.Category, rows []domain.Row) error {
	for _, s := range m {
		if err := s.Write(ctx, season, cat, rows); err != nil {
			return err
		}
	}
	return nil
}
