package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"scraper/packages/domain"
)

// CSV writes one file per season per category under a base directory, e.g.
// <dir>/2023/team_stats.csv. The file is written to a temp name in the same
// directory and renamed into place, so a reader never sees a partial file.
type CSV struct {
	dir string
}

func NewCSV(dir string) *CSV {
	return &CSV{dir: dir}
}

func (s *CSV) Write(ctx context.Context, season int, cat domain.Category, rows []domain.Row) error {
	def, ok := domain.Definitions[cat]
	if !ok {
		return fmt.Errorf("unknown category: %s", cat)
	}

	seasonDir := filepath.Join(s.dir, strconv.Itoa(season))
	if err := os.MkdirAll(seasonDir, 0o750); err != nil {
		return fmt.Errorf("create season directory: %w", err)
	}

	tmp, err := os.CreateTemp(seasonDir, "."+def.FileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(append([]string{"team"}, def.Columns...)); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, 0, len(def.Columns)+1)
		record = append(record, row.Team)
		for _, v := range row.Values {
			record = append(record, v.String())
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write row for %s: %w", row.Team, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	dest := filepath.Join(seasonDir, def.FileName)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}

	slog.Info("Wrote season file", "path", dest, "rows", len(rows))
	return nil
}
