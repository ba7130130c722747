// Package scoring turns race results into weekly points for each player.
package scoring

import (
	"fmt"

	"github.com/okian/pitpool/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultFrontRowCutoff = 3
	qualifyingBonusPoints = 1
)

// EventKind classifies an observational scoring event.
type EventKind int

const (
	// EventMissingResult means a pick had no result; the car likely did not qualify.
	EventMissingResult EventKind = iota + 1
	// EventQualifyingBonus means a pick earned the front-row bonus point.
	EventQualifyingBonus
)

func (k EventKind) String() string {
	switch k {
	case EventMissingResult:
		return "missing_result"
	case EventQualifyingBonus:
		return "qualifying_bonus"
	default:
		return "unknown"
	}
}

// Event records something worth telling the operator about while scoring.
// Events never change control flow.
type Event struct {
	Kind   EventKind
	Player string
	Car    int
	Start  int // start position, zero for missing results
	Points int // points attributed to the event
}

// Err returns the soft error kind carried by the event, if any.
func (e Event) Err() error {
	if e.Kind == EventMissingResult {
		return model.ErrMissingResult
	}
	return nil
}

func (e Event) String() string {
	switch e.Kind {
	case EventMissingResult:
		return fmt.Sprintf("Player [%s] Car [%d] missing, may not have qualified!", e.Player, e.Car)
	case EventQualifyingBonus:
		return fmt.Sprintf("Player [%s] received a qualifying bonus point for car [%d]!", e.Player, e.Car)
	default:
		return fmt.Sprintf("Player [%s] car [%d]: unknown event", e.Player, e.Car)
	}
}

// Engine scores players' picks against a race's results.
type Engine struct {
	bonusEnabled   bool
	frontRowCutoff int
}

// New creates a scoring Engine. The qualifying bonus is off unless enabled.
func New(opts ...Option) *Engine {
	e := &Engine{
		frontRowCutoff: defaultFrontRowCutoff,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// BonusEnabled reports whether the qualifying bonus is applied.
func (e *Engine) BonusEnabled() bool {
	return e.bonusEnabled
}

// PickPoints returns the points one result is worth, including any bonus.
func (e *Engine) PickPoints(r model.RaceResult) (points int, bonus bool) {
	bonus = e.bonusEnabled && r.Start < e.frontRowCutoff
	points = r.Points
	if bonus {
		points += qualifyingBonusPoints
	}
	return points, bonus
}

// ScorePlayer returns p with WeeklyPoints computed from rs and SeasonTotal
// advanced by those points. WeeklyPoints is recomputed from zero.
func (e *Engine) ScorePlayer(p model.Player, rs model.ResultSet) (model.Player, []Event) {
	var events []Event
	weekly := 0
	for _, car := range p.Picks {
		r, ok := rs.Lookup(car)
		if !ok {
			events = append(events, Event{Kind: EventMissingResult, Player: p.Name, Car: car})
			continue
		}
		points, bonus := e.PickPoints(r)
		if bonus {
			events = append(events, Event{
				Kind:   EventQualifyingBonus,
				Player: p.Name,
				Car:    car,
				Start:  r.Start,
				Points: qualifyingBonusPoints,
			})
		}
		weekly += points
	}
	p.WeeklyPoints = weekly
	p.SeasonTotal += weekly
	return p, events
}

// Score applies ScorePlayer to every player. The input slice is not modified.
func (e *Engine) Score(players []model.Player, rs model.ResultSet) ([]model.Player, []Event) {
	out := make([]model.Player, len(players))
	var events []Event
	for i, p := range players {
		scored, ev := e.ScorePlayer(p, rs)
		out[i] = scored
		events = append(events, ev...)
	}
	return out, events
}
