// Package domain
package domain

import (
	"fmt"
	"strconv"
)

type Category string

const (
	TeamStats     Category = "team_stats"
	OpponentStats Category = "opponent_stats"
	Rankings      Category = "rankings"
)

// AllCategories returns every category in the order batches process them.
func AllCategories() []Category {
	return []Category{TeamStats, OpponentStats, Rankings}
}

type PageKind string

const (
	StaticPage   PageKind = "static"
	RenderedPage PageKind = "rendered"
)

// Definition describes how one category is scraped and persisted. Flipping a
// category to rendered mode or adding a column is a one-line change here.
type Definition struct {
	Kind         PageKind
	FileName     string
	WaitSelector string
	Columns      []string
	URL          func(season int) string
}

// statColumns is the fixed schema shared by the team and opponent stat pages.
var statColumns = []string{
	"gp", "pts",
	"fgm", "fga", "fg_pct",
	"3pm", "3pa", "3p_pct",
	"ftm", "fta", "ft_pct",
	"or", "dr", "reb",
	"ast", "stl", "blk", "to", "pf",
}

var Definitions = map[Category]Definition{
	TeamStats: {
		Kind:         StaticPage,
		FileName:     "team_stats.csv",
		WaitSelector: "div.ResponsiveTable",
		Columns:      statColumns,
		URL: func(season int) string {
			return fmt.Sprintf("https://www.espn.com/mens-college-basketball/stats/team/_/season/%d/seasontype/2", season)
		},
	},
	OpponentStats: {
		Kind:         StaticPage,
		FileName:     "opponent_stats.csv",
		WaitSelector: "div.ResponsiveTable",
		Columns:      statColumns,
		URL: func(season int) string {
			return fmt.Sprintf("https://www.espn.com/mens-college-basketball/stats/team/_/view/opponent/season/%d/seasontype/2", season)
		},
	},
	Rankings: {
		Kind:         StaticPage,
		FileName:     "rankings.csv",
		WaitSelector: "section.Rankings",
		Columns:      []string{"ap_rank", "coaches_rank"},
		URL: func(season int) string {
			return fmt.Sprintf("https://www.espn.com/mens-college-basketball/rankings/_/week/1/year/%d/seasontype/2", season)
		},
	},
}

// Value is one numeric cell. An unparsable or absent cell stays invalid and
// is written out as an empty field, never as zero.
type Value struct {
	Number float64
	Valid  bool
}

func NumberValue(n float64) Value {
	return Value{Number: n, Valid: true}
}

func MissingValue() Value {
	return Value{}
}

func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// Row is one team's extracted record. Values aligns index-for-index with the
// category's Definition.Columns.
type Row struct {
	Team   string
	Values []Value
}

type FailureKind string

const (
	FailureTransport     FailureKind = "transport"
	FailureRenderTimeout FailureKind = "render_timeout"
	FailureLayout        FailureKind = "layout"
	FailureWrite         FailureKind = "write"
)

// JobOutcome is the immutable result of one (season, category) job.
type JobOutcome struct {
	Season   int
	Category Category
	Rows     int
	Skipped  bool
	Kind     FailureKind
	Message  string
}

func (o JobOutcome) Failed() bool {
	return !o.Skipped && o.Kind != ""
}

// Summary aggregates job outcomes for one batch invocation.
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
	Outcomes  []JobOutcome
}

func (s *Summary) Record(o JobOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch {
	case o.Skipped:
		s.Skipped++
	case o.Failed():
		s.Failed++
	default:
		s.Succeeded++
	}
}

// Failures returns the outcomes that ended in a failure, in completion order.
func (s *Summary) Failures() []JobOutcome {
	var failed []JobOutcome
	for _, o := range s.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}
