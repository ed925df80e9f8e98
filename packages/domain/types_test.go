package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueString(t *testing.T) {
	require.Equal(t, "", MissingValue().String())
	require.Equal(t, "81.3", NumberValue(81.3).String())
	require.Equal(t, "36", NumberValue(36).String())
	require.Equal(t, "0", NumberValue(0).String())
}

func TestDefinitionsCoverAllCategories(t *testing.T) {
	for _, cat := range AllCategories() {
		def, ok := Definitions[cat]
		require.True(t, ok, "missing definition for %s", cat)
		require.NotEmpty(t, def.FileName)
		require.NotEmpty(t, def.WaitSelector)
		require.NotEmpty(t, def.Columns)
		require.Contains(t, def.URL(2023), "2023")
	}
}

func TestStatDefinitionsShareSchema(t *testing.T) {
	require.Equal(t,
		Definitions[TeamStats].Columns,
		Definitions[OpponentStats].Columns)
	require.Equal(t, []string{"ap_rank", "coaches_rank"}, Definitions[Rankings].Columns)
}

func TestSummaryRecord(t *testing.T) {
	s := Summary{}
	s.Record(JobOutcome{Season: 2021, Category: TeamStats, Rows: 300})
	s.Record(JobOutcome{Season: 2021, Category: Rankings, Kind: FailureLayout, Message: "no tables"})
	s.Record(JobOutcome{Season: 2022, Category: TeamStats, Skipped: true})

	require.Equal(t, 1, s.Succeeded)
	require.Equal(t, 1, s.Failed)
	require.Equal(t, 1, s.Skipped)

	failures := s.Failures()
	require.Len(t, failures, 1)
	require.Equal(t, Rankings, failures[0].Category)
}
