package scrape

import (
	"context"
	"errors"
	"sync"
	"testing"

	"scraper/packages/domain"

	"github.com/stretchr/testify/require"
)

const statsHTML = `<html><body>
<div class="ResponsiveTable"><table><tbody>
	<tr><td>Duke</td></tr><tr><td>Kansas</td></tr>
</tbody></table></div>
<div class="ResponsiveTable"><table><thead><tr><th>GP</th><th>PTS</th></tr></thead><tbody>
	<tr><td>36</td><td>81.3</td></tr><tr><td>35</td><td>74.6</td></tr>
</tbody></table></div>
</body></html>`

const emptyRankingsHTML = `<html><body><section class="Rankings">
<div class="tabs__content"><table><tbody></tbody></table></div>
</section></body></html>`

// urlFetcher serves canned documents keyed by URL.
type urlFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls int
}

func (f *urlFetcher) Fetch(ctx context.Context, url, waitFor string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	html, ok := f.pages[url]
	if !ok {
		return "", errors.New("no such page")
	}
	return html, nil
}

type sinkWrite struct {
	Season   int
	Category domain.Category
	Rows     int
}

type captureSink struct {
	mu     sync.Mutex
	writes []sinkWrite
	err    error
}

func (s *captureSink) Write(ctx context.Context, season int, cat domain.Category, rows []domain.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, sinkWrite{Season: season, Category: cat, Rows: len(rows)})
	return nil
}

func newTestOrchestrator(fetcher *urlFetcher, out *captureSink, cfg Config) *Orchestrator {
	runner := NewRunner(fetcher, fetcher, JobConfig{MaxAttempts: 1})
	return New(runner, out, cfg)
}

func TestOrchestratorOrderingAndPartialFailure(t *testing.T) {
	pages := map[string]string{}
	for season := 2021; season <= 2022; season++ {
		for _, cat := range domain.AllCategories() {
			html := statsHTML
			if cat == domain.Rankings {
				html = rankingsHTML
			}
			pages[domain.Definitions[cat].URL(season)] = html
		}
	}
	// Job 2 of 6 hits a page whose layout drifted.
	pages[domain.Definitions[domain.OpponentStats].URL(2021)] = noTablesHTML

	fetcher := &urlFetcher{pages: pages}
	out := &captureSink{}
	summary := newTestOrchestrator(fetcher, out, Config{}).
		Run(context.Background(), 2021, 2022, domain.AllCategories())

	require.Equal(t, 5, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 0, summary.Skipped)
	require.Len(t, out.writes, 5)

	failures := summary.Failures()
	require.Len(t, failures, 1)
	require.Equal(t, 2021, failures[0].Season)
	require.Equal(t, domain.OpponentStats, failures[0].Category)
	require.Equal(t, domain.FailureLayout, failures[0].Kind)

	// Every 2021 job completes before any 2022 job starts.
	var got []sinkWrite
	for _, o := range summary.Outcomes {
		got = append(got, sinkWrite{Season: o.Season, Category: o.Category})
	}
	require.Equal(t, []sinkWrite{
		{Season: 2021, Category: domain.TeamStats},
		{Season: 2021, Category: domain.OpponentStats},
		{Season: 2021, Category: domain.Rankings},
		{Season: 2022, Category: domain.TeamStats},
		{Season: 2022, Category: domain.OpponentStats},
		{Season: 2022, Category: domain.Rankings},
	}, got)
}

func TestOrchestratorRankingsScenario(t *testing.T) {
	pages := map[string]string{
		domain.Definitions[domain.Rankings].URL(2021): rankingsHTML,
		domain.Definitions[domain.Rankings].URL(2022): emptyRankingsHTML,
	}

	fetcher := &urlFetcher{pages: pages}
	out := &captureSink{}
	summary := newTestOrchestrator(fetcher, out, Config{}).
		Run(context.Background(), 2021, 2022, []domain.Category{domain.Rankings})

	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)

	require.Len(t, out.writes, 1)
	require.Equal(t, sinkWrite{Season: 2021, Category: domain.Rankings, Rows: 2}, out.writes[0])

	failures := summary.Failures()
	require.Equal(t, 2022, failures[0].Season)
	require.Equal(t, domain.FailureLayout, failures[0].Kind)
}

func TestOrchestratorWriteFailure(t *testing.T) {
	fetcher := &urlFetcher{pages: map[string]string{
		domain.Definitions[domain.Rankings].URL(2021): rankingsHTML,
	}}
	out := &captureSink{err: errors.New("read-only file system")}

	summary := newTestOrchestrator(fetcher, out, Config{}).
		Run(context.Background(), 2021, 2021, []domain.Category{domain.Rankings})

	require.Equal(t, 1, summary.Failed)
	require.Equal(t, domain.FailureWrite, summary.Failures()[0].Kind)
}

func TestOrchestratorSkipsRemainingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &urlFetcher{pages: map[string]string{}}
	out := &captureSink{}
	summary := newTestOrchestrator(fetcher, out, Config{}).
		Run(ctx, 2021, 2022, domain.AllCategories())

	require.Equal(t, 6, summary.Skipped)
	require.Equal(t, 0, summary.Succeeded)
	require.Equal(t, 0, summary.Failed)
	require.Equal(t, 0, fetcher.calls)
	require.Empty(t, out.writes)
}

func TestOrchestratorParallelCategories(t *testing.T) {
	pages := map[string]string{}
	for season := 2021; season <= 2022; season++ {
		for _, cat := range []domain.Category{domain.TeamStats, domain.OpponentStats} {
			pages[domain.Definitions[cat].URL(season)] = statsHTML
		}
	}

	fetcher := &urlFetcher{pages: pages}
	out := &captureSink{}
	summary := newTestOrchestrator(fetcher, out, Config{Parallel: true}).
		Run(context.Background(), 2021, 2022, []domain.Category{domain.TeamStats, domain.OpponentStats})

	require.Equal(t, 4, summary.Succeeded)
	require.Equal(t, 0, summary.Failed)
	require.Len(t, out.writes, 4)

	// Within each category stream, seasons still ascend.
	seen := map[domain.Category][]int{}
	for _, o := range summary.Outcomes {
		seen[o.Category] = append(seen[o.Category], o.Season)
	}
	require.Equal(t, []int{2021, 2022}, seen[domain.TeamStats])
	require.Equal(t, []int{2021, 2022}, seen[domain.OpponentStats])
}
