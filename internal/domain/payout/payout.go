// Package payout settles the weekly cash balance from the weekly ranking.
package payout

import (
	"fmt"
	"slices"

	"github.com/okian/pitpool/internal/domain/model"
)

// Default payout amounts, in currency units.
const (
	DefaultAnte   = 5
	DefaultFirst  = 15
	DefaultSecond = 10
	DefaultThird  = 5

	podiumSize = 3
)

// Schedule is the fixed payout table: the podium is paid, everyone else antes.
type Schedule struct {
	Ante   int
	First  int
	Second int
	Third  int
}

// DefaultSchedule returns the pool's standard payout table.
func DefaultSchedule() Schedule {
	return Schedule{Ante: DefaultAnte, First: DefaultFirst, Second: DefaultSecond, Third: DefaultThird}
}

// Delta is the balance change applied to one player.
type Delta struct {
	Name   string
	Rank   int // 1-based weekly rank
	Amount int // signed
}

// Amount returns the balance change for a 1-based weekly rank.
func (s Schedule) Amount(rank int) int {
	switch rank {
	case 1:
		return s.First
	case 2:
		return s.Second
	case 3:
		return s.Third
	default:
		return -s.Ante
	}
}

// Net returns the sum of all balance changes for n players.
func (s Schedule) Net(n int) int {
	if n < podiumSize {
		return 0
	}
	return s.First + s.Second + s.Third - s.Ante*(n-podiumSize)
}

// Settle applies the schedule to players ordered by the weekly ranking.
// The input slice is not modified.
func (s Schedule) Settle(ranked []model.Player) ([]model.Player, []Delta, error) {
	if len(ranked) < podiumSize {
		return nil, nil, fmt.Errorf("%w: payout needs at least %d players, got %d",
			model.ErrInsufficientPlayers, podiumSize, len(ranked))
	}
	out := slices.Clone(ranked)
	deltas := make([]Delta, len(out))
	for i := range out {
		amount := s.Amount(i + 1)
		out[i].Balance += amount
		deltas[i] = Delta{Name: out[i].Name, Rank: i + 1, Amount: amount}
	}
	return out, deltas, nil
}
