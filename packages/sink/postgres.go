package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"scraper/packages/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scrapedRowsSchema = `
CREATE TABLE IF NOT EXISTS scraped_rows (
	season   integer NOT NULL,
	category text    NOT NULL,
	team     text    NOT NULL,
	stats    jsonb   NOT NULL,
	PRIMARY KEY (season, category, team)
)`

// Postgres mirrors season files into a scraped_rows table so downstream
// feature pipelines can query across seasons without touching the CSVs. Each
// write replaces the whole (season, category) slice in one transaction.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if _, err := pool.Exec(ctx, scrapedRowsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure scraped_rows table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() {
	s.pool.Close()
}

func (s *Postgres) Write(ctx context.Context, season int, cat domain.Category, rows []domain.Row) (err error) {
	def, ok := domain.Definitions[cat]
	if !ok {
		return fmt.Errorf("unknown category: %s", cat)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx,
		`DELETE FROM scraped_rows WHERE season = $1 AND category = $2`,
		season, string(cat),
	); err != nil {
		return fmt.Errorf("clear previous rows: %w", err)
	}

	copyRows := make([][]any, 0, len(rows))
	for _, row := range rows {
		stats := make(map[string]*float64, len(def.Columns))
		for i, col := range def.Columns {
			if i < len(row.Values) && row.Values[i].Valid {
				n := row.Values[i].Number
				stats[col] = &n
			} else {
				stats[col] = nil
			}
		}
		encoded, jsonErr := json.Marshal(stats)
		if jsonErr != nil {
			err = fmt.Errorf("encode stats for %s: %w", row.Team, jsonErr)
			return err
		}
		copyRows = append(copyRows, []any{season, string(cat), row.Team, encoded})
	}

	if _, err = tx.CopyFrom(ctx,
		pgx.Identifier{"scraped_rows"},
		[]string{"season", "category", "team", "stats"},
		pgx.CopyFromRows(copyRows),
	); err != nil {
		return fmt.Errorf("bulk insert rows: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.Debug("Mirrored season rows to Postgres", "season", season, "category", cat, "rows", len(rows))
	return nil
}
