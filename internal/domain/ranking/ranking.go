// Package ranking orders players for payouts, pick order and season standings.
//
// Ordering is pure: functions return new slices and describe ties as values
// instead of reporting them while sorting.
package ranking

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/pitpool/internal/domain/model"
)

// DefaultPickOrderFrom is the first 1-indexed position the pick-order pass may move.
const DefaultPickOrderFrom = 5

// TieEvent describes two adjacent players tied on weekly points.
type TieEvent struct {
	Points         int
	Preferred      string
	PreferredTotal int
	Other          string
	OtherTotal     int
	PreferredRank  int // 1-based rank of the preferred player
}

func (e TieEvent) String() string {
	if e.PreferredTotal == e.OtherTotal {
		return fmt.Sprintf("%s (%d) and %s (%d) tied with %d points; %s keeps input order",
			e.Preferred, e.PreferredTotal, e.Other, e.OtherTotal, e.Points, e.Preferred)
	}
	return fmt.Sprintf("%s (%d) and %s (%d) tied with %d points; %s gets preference with fewer season points",
		e.Preferred, e.PreferredTotal, e.Other, e.OtherTotal, e.Points, e.Preferred)
}

// compareWeekly orders by weekly points descending, then season total ascending.
func compareWeekly(a, b model.Player) int {
	if c := cmp.Compare(b.WeeklyPoints, a.WeeklyPoints); c != 0 {
		return c
	}
	return cmp.Compare(a.SeasonTotal, b.SeasonTotal)
}

// Weekly ranks players for the weekly payout. Ties on weekly points go to the
// player behind in the season; remaining ties keep input order. Every adjacent
// pair tied on non-zero weekly points yields a TieEvent.
func Weekly(players []model.Player) ([]model.Player, []TieEvent) {
	ranked := slices.Clone(players)
	slices.SortStableFunc(ranked, compareWeekly)

	var ties []TieEvent
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if prev.WeeklyPoints != cur.WeeklyPoints || cur.WeeklyPoints == 0 {
			continue
		}
		ties = append(ties, TieEvent{
			Points:         cur.WeeklyPoints,
			Preferred:      prev.Name,
			PreferredTotal: prev.SeasonTotal,
			Other:          cur.Name,
			OtherTotal:     cur.SeasonTotal,
			PreferredRank:  i,
		})
	}
	return ranked, ties
}

// PickOrder applies the adjacent-swap pass to a weekly ranking. Starting at
// the 1-indexed position from, each pair (i-1, i) tied on weekly points is
// swapped when the later player has fewer season points. It is a single
// left-to-right pass, and positions before from are never moved. The input
// slice is not modified.
func PickOrder(ranked []model.Player, from int) []model.Player {
	out := slices.Clone(ranked)
	if from < 1 {
		from = 1
	}
	// 1-indexed position from is 0-based index from-1; the first pair compared
	// is (from-1, from) in 0-based terms.
	for i := from; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if prev.WeeklyPoints == cur.WeeklyPoints && cur.SeasonTotal < prev.SeasonTotal {
			out[i-1], out[i] = cur, prev
		}
	}
	return out
}

// Season ranks players by season total descending; ties keep input order.
func Season(players []model.Player) []model.Player {
	ranked := slices.Clone(players)
	slices.SortStableFunc(ranked, func(a, b model.Player) int {
		return cmp.Compare(b.SeasonTotal, a.SeasonTotal)
	})
	return ranked
}
