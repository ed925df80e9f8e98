package extract

import (
	"fmt"
	"log/slog"

	"scraper/packages/domain"

	"github.com/PuerkitoBio/goquery"
)

// StatsExtractor handles the team and opponent stat pages. Both render as two
// parallel tables: the first holds team names, the second the stat cells, row
// for row.
type StatsExtractor struct {
	columns []string
}

func (e *StatsExtractor) Extract(doc *goquery.Document) ([]domain.Row, error) {
	tables := doc.Find("div.ResponsiveTable")
	if tables.Length() < 2 {
		return nil, fmt.Errorf("%w: expected two stat tables, found %d", ErrLayout, tables.Length())
	}
	teamTable := tables.Eq(0)
	statsTable := tables.Eq(1)

	var teams []string
	teamTable.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		teams = append(teams, cellText(row.Find("td").First()))
	})

	// Map each page column position onto the declared schema, tolerating
	// reordered or extra page columns. A schema column absent from the page
	// stays missing for every row.
	colForPos := map[int]int{}
	statsTable.Find("thead tr th").Each(func(pos int, th *goquery.Selection) {
		header := canonicalHeader(th.Text())
		for i, col := range e.columns {
			if canonicalHeader(col) == header {
				colForPos[pos] = i
				return
			}
		}
	})
	if len(colForPos) == 0 {
		return nil, fmt.Errorf("%w: no recognized stat columns in table header", ErrLayout)
	}

	statRows := statsTable.Find("tbody tr")
	if statRows.Length() != len(teams) {
		return nil, fmt.Errorf("%w: team count (%d) does not match stats count (%d)", ErrLayout, len(teams), statRows.Length())
	}

	var rows []domain.Row
	seen := map[string]bool{}
	statRows.Each(func(i int, row *goquery.Selection) {
		team := teams[i]
		if team == "" {
			slog.Warn("Skipping stat row with empty team name", "row", i)
			return
		}
		if seen[team] {
			slog.Warn("Skipping duplicate team in stats table", "team", team)
			return
		}
		seen[team] = true

		values := make([]domain.Value, len(e.columns))
		row.Find("td").Each(func(pos int, td *goquery.Selection) {
			if col, ok := colForPos[pos]; ok {
				values[col] = parseCell(td.Text())
			}
		})
		rows = append(rows, domain.Row{Team: team, Values: values})
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: stats table contained no rows", ErrLayout)
	}
	return rows, nil
}
