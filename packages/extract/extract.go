// Package extract
package extract

import (
	"errors"
	"strconv"
	"strings"

	"scraper/packages/domain"

	"github.com/PuerkitoBio/goquery"
)

// ErrLayout marks a document that does not contain the expected structure.
// It signals the source page template changed; retrying will not fix it.
var ErrLayout = errors.New("page layout mismatch")

// Extractor maps one fetched document to the rows of one season.
type Extractor interface {
	Extract(doc *goquery.Document) ([]domain.Row, error)
}

// ForCategory returns the extractor for a category.
func ForCategory(cat domain.Category) Extractor {
	if cat == domain.Rankings {
		return &RankingsExtractor{}
	}
	return &StatsExtractor{columns: domain.Definitions[cat].Columns}
}

// parseCell parses a numeric stat cell. Anything that does not parse becomes
// the explicit missing value.
func parseCell(raw string) domain.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" || raw == "--" {
		return domain.MissingValue()
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return domain.MissingValue()
	}
	return domain.NumberValue(n)
}

// canonicalHeader folds a page header or schema column name to a comparable
// form, so "FG%" on the page matches the "fg_pct" column.
func canonicalHeader(h string) string {
	h = strings.ToUpper(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "%", "_PCT")
	return h
}

func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
