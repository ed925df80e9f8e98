package extract

import (
	"fmt"
	"log/slog"
	"strconv"

	"scraper/packages/domain"

	"github.com/PuerkitoBio/goquery"
)

// Poll positions inside section.Rankings, and the matching Values indices.
const (
	apPoll      = 0
	coachesPoll = 1
)

// RankingsExtractor merges the AP and Coaches poll tables into one row per
// team. A team absent from a poll is unranked there, which is a valid null; a
// rank cell that exists but does not parse is recorded as missing and warned
// about, since it usually means the cell markup changed.
type RankingsExtractor struct{}

func (e *RankingsExtractor) Extract(doc *goquery.Document) ([]domain.Row, error) {
	polls := doc.Find("section.Rankings div.tabs__content")
	if polls.Length() == 0 {
		return nil, fmt.Errorf("%w: no rankings tables on page", ErrLayout)
	}

	var order []string
	ranks := map[string][]domain.Value{}

	for poll := apPoll; poll <= coachesPoll && poll < polls.Length(); poll++ {
		pollName := "AP"
		if poll == coachesPoll {
			pollName = "Coaches"
		}

		polls.Eq(poll).Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			team := cellText(row.Find("td span.ml4").First())
			if team == "" {
				slog.Warn("Skipping ranking row with empty team name", "poll", pollName)
				return
			}

			if _, ok := ranks[team]; !ok {
				order = append(order, team)
				ranks[team] = []domain.Value{domain.MissingValue(), domain.MissingValue()}
			} else if ranks[team][poll].Valid {
				slog.Warn("Skipping duplicate team in poll table", "poll", pollName, "team", team)
				return
			}

			rankText := cellText(row.Find("td").First().Find("span").First())
			rank, err := strconv.Atoi(rankText)
			if err != nil {
				slog.Warn("Unparsable rank cell", "poll", pollName, "team", team, "value", rankText)
				return
			}
			ranks[team][poll] = domain.NumberValue(float64(rank))
		})
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("%w: rankings tables contained no rows", ErrLayout)
	}

	rows := make([]domain.Row, 0, len(order))
	for _, team := range order {
		rows = append(rows, domain.Row{Team: team, Values: ranks[team]})
	}
	return rows, nil
}
