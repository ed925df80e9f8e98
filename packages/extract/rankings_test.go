package extract

import (
	"testing"

	"scraper/packages/domain"

	"github.com/stretchr/testify/require"
)

const rankingsPage = `<html><body><section class="Rankings">
<div class="tabs__content"><table><tbody>
	<tr><td><span>1</span><span class="ml4">Houston</span></td><td>31-4</td><td>1500</td></tr>
	<tr><td><span>2</span><span class="ml4">Duke</span></td><td>30-5</td><td>1430</td></tr>
	<tr><td><span>3</span><span class="ml4">Auburn</span></td><td>28-5</td><td>1390</td></tr>
</tbody></table></div>
<div class="tabs__content"><table><tbody>
	<tr><td><span>1</span><span class="ml4">Houston</span></td><td>31-4</td><td>770</td></tr>
	<tr><td><span>2</span><span class="ml4">Florida</span></td><td>30-4</td><td>740</td></tr>
	<tr><td><span>NR</span><span class="ml4">Duke</span></td><td>30-5</td><td>12</td></tr>
</tbody></table></div>
</section></body></html>`

func TestRankingsExtractMergesPolls(t *testing.T) {
	rows, err := (&RankingsExtractor{}).Extract(parseDoc(t, rankingsPage))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byTeam := map[string]domain.Row{}
	var order []string
	for _, r := range rows {
		byTeam[r.Team] = r
		order = append(order, r.Team)
	}
	require.Equal(t, []string{"Houston", "Duke", "Auburn", "Florida"}, order)

	require.Equal(t, domain.NumberValue(1), byTeam["Houston"].Values[0])
	require.Equal(t, domain.NumberValue(1), byTeam["Houston"].Values[1])

	// Ranked AP but absent from the Coaches table: unranked there, null.
	require.Equal(t, domain.NumberValue(3), byTeam["Auburn"].Values[0])
	require.False(t, byTeam["Auburn"].Values[1].Valid)

	// Coaches-only team: null AP rank.
	require.False(t, byTeam["Florida"].Values[0].Valid)
	require.Equal(t, domain.NumberValue(2), byTeam["Florida"].Values[1])

	// Present in the Coaches table but with an unparsable rank cell: missing.
	require.Equal(t, domain.NumberValue(2), byTeam["Duke"].Values[0])
	require.False(t, byTeam["Duke"].Values[1].Valid)
}

func TestRankingsExtractSinglePoll(t *testing.T) {
	html := `<html><body><section class="Rankings">
	<div class="tabs__content"><table><tbody>
		<tr><td><span>1</span><span class="ml4">Houston</span></td></tr>
	</tbody></table></div>
	</section></body></html>`

	rows, err := (&RankingsExtractor{}).Extract(parseDoc(t, html))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, domain.NumberValue(1), rows[0].Values[0])
	require.False(t, rows[0].Values[1].Valid)
}

func TestRankingsExtractLayoutFailures(t *testing.T) {
	testCases := []struct {
		name string
		html string
	}{
		{"no rankings section", `<html><body><p>nothing here</p></body></html>`},
		{"zero rows", `<html><body><section class="Rankings"><div class="tabs__content"><table><tbody></tbody></table></div></section></body></html>`},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := (&RankingsExtractor{}).Extract(parseDoc(t, test.html))
			require.ErrorIs(t, err, ErrLayout)
		})
	}
}

func TestForCategory(t *testing.T) {
	require.IsType(t, &StatsExtractor{}, ForCategory(domain.TeamStats))
	require.IsType(t, &StatsExtractor{}, ForCategory(domain.OpponentStats))
	require.IsType(t, &RankingsExtractor{}, ForCategory(domain.Rankings))
}
