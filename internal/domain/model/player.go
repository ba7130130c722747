package model

import (
	"fmt"
	"strings"

	"github.com/okian/pitpool/internal/domain/dedupe"
)

// PicksPerPlayer is the number of cars every player selects for a race.
const PicksPerPlayer = 4

// Standing is a player's season-to-date state at the end of the previous race.
type Standing struct {
	Name        string
	SeasonTotal int
	Balance     int // currency units, negative when the player owes
}

// Picks is one player's selection for a race, as read from the picks input.
type Picks struct {
	Name string
	Cars [PicksPerPlayer]int
}

// Player carries a player's picks and the values the weekly pipeline updates.
// Players are passed by value; each pipeline step returns updated copies.
type Player struct {
	Name         string
	Picks        [PicksPerPlayer]int
	WeeklyPoints int
	SeasonTotal  int
	Balance      int
}

// PickList returns the picks as a slice, in the order they were entered.
func (p Player) PickList() []int {
	return p.Picks[:]
}

// Standing returns the player's carry-forward record.
func (p Player) Standing() Standing {
	return Standing{Name: p.Name, SeasonTotal: p.SeasonTotal, Balance: p.Balance}
}

// NormalizeName trims a player name so it can be used as a join key.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NewRoster joins this race's picks to the prior standings by trimmed name and
// seeds each Player's season total and balance. Standings without picks are
// not part of the roster.
func NewRoster(picks []Picks, prior []Standing) ([]Player, error) {
	byName := make(map[string]Standing, len(prior))
	seenStanding := dedupe.New(dedupe.WithCapacity(len(prior)))
	for _, s := range prior {
		name := NormalizeName(s.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: standing with empty player name", ErrMalformedRecord)
		}
		if seenStanding.SeenAndRecord(name) {
			return nil, fmt.Errorf("%w: duplicate standing for %q", ErrMalformedRecord, name)
		}
		s.Name = name
		byName[name] = s
	}

	seenPicks := dedupe.New(dedupe.WithCapacity(len(picks)))
	players := make([]Player, 0, len(picks))
	for _, pk := range picks {
		name := NormalizeName(pk.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: picks with empty player name", ErrMalformedRecord)
		}
		if seenPicks.SeenAndRecord(name) {
			return nil, fmt.Errorf("%w: duplicate picks for %q", ErrMalformedRecord, name)
		}
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no prior standing", ErrUnresolvedPlayer, name)
		}
		players = append(players, Player{
			Name:        name,
			Picks:       pk.Cars,
			SeasonTotal: s.SeasonTotal,
			Balance:     s.Balance,
		})
	}
	return players, nil
}
