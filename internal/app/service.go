// Package service runs the weekly pool pipeline: score picks, rank players,
// settle the payout and project the next race's standings.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/pitpool/internal/adapters/repository"
	"github.com/okian/pitpool/internal/domain/model"
	"github.com/okian/pitpool/internal/domain/payout"
	"github.com/okian/pitpool/internal/domain/ranking"
	"github.com/okian/pitpool/internal/domain/scoring"
	"github.com/okian/pitpool/internal/domain/standings"
	"github.com/okian/pitpool/pkg/logger"
	"github.com/okian/pitpool/pkg/metrics"
)

// Pipeline stage names used for logging and the stage duration metric.
const (
	stageLoad      = "load"
	stageScore     = "score"
	stageRank      = "rank"
	stageSettle    = "settle"
	stageStandings = "standings"
	stageSave      = "save"
)

// Input is everything one race needs.
type Input struct {
	Results         []model.RaceResult
	Picks           []model.Picks
	Standings       []model.Standing
	QualifyingBonus bool
}

// BestCar is a player's highest-scoring pick. Found is false when none of the
// picks had a result and Car is the first pick.
type BestCar struct {
	Car   int
	Found bool
}

// Outcome is the result of one run. Player slices carry the updated weekly
// points, season totals and balances.
type Outcome struct {
	RunID           string
	QualifyingBonus bool
	Results         []model.RaceResult // ordered by finish
	Roster          []model.Player     // picks with prior totals, before scoring
	Weekly          []model.Player     // payout order
	PickOrder       []model.Player     // next race's pick order
	Season          []model.Player     // season total descending
	Standings       []model.Standing   // carry-forward records, season order
	Deltas          []payout.Delta     // aligned with Weekly
	Events          []scoring.Event
	Ties            []ranking.TieEvent
	BestCars        map[string]BestCar
}

// Delta returns the balance change applied to the named player.
func (o *Outcome) Delta(name string) (payout.Delta, bool) {
	for _, d := range o.Deltas {
		if d.Name == name {
			return d, true
		}
	}
	return payout.Delta{}, false
}

// Notes returns the operator-facing messages raised while scoring and ranking.
func (o *Outcome) Notes() []string {
	notes := make([]string, 0, len(o.Events)+len(o.Ties))
	for _, e := range o.Events {
		notes = append(notes, e.String())
	}
	for _, t := range o.Ties {
		notes = append(notes, t.String())
	}
	for _, p := range o.Weekly {
		if bc, ok := o.BestCars[p.Name]; ok && !bc.Found {
			notes = append(notes, fmt.Sprintf("Player [%s] has no car with a result; showing first pick [%d]", p.Name, bc.Car))
		}
	}
	return notes
}

// Service runs the pool pipeline for one race at a time.
type Service struct {
	schedule       payout.Schedule
	frontRowCutoff int
	pickOrderFrom  int
	store          repository.Store
	metrics        *metrics.Manager
	logger         logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		schedule:       payout.DefaultSchedule(),
		frontRowCutoff: 3,
		pickOrderFrom:  ranking.DefaultPickOrderFrom,
		metrics:        metrics.Default(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run scores one race. Nothing is persisted unless every step succeeds; the
// store, when configured, is written last.
func (s *Service) Run(ctx context.Context, in Input) (*Outcome, error) {
	runID := uuid.NewString()
	log := s.log().With(logger.String("run_id", runID))
	started := time.Now()

	out, err := s.run(ctx, log, runID, in)
	if err != nil {
		s.metrics.RecordRun(metrics.OutcomeFailure, time.Since(started))
		log.Error(ctx, "run failed", logger.Error(err))
		return nil, err
	}

	s.metrics.RecordRun(metrics.OutcomeSuccess, time.Since(started))
	log.Info(ctx, "run completed",
		logger.Int("players", len(out.Weekly)),
		logger.String("winner", out.Weekly[0].Name),
		logger.Int("winner_points", out.Weekly[0].WeeklyPoints),
		logger.Any("duration", time.Since(started)),
	)
	return out, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, runID string, in Input) (*Outcome, error) {
	engine := scoring.New(
		scoring.WithQualifyingBonus(in.QualifyingBonus),
		scoring.WithFrontRowCutoff(s.frontRowCutoff),
	)
	log.Info(ctx, "calculating results",
		logger.Bool("qualifying_bonus", engine.BonusEnabled()),
		logger.Int("results", len(in.Results)),
		logger.Int("picks", len(in.Picks)),
	)

	t := time.Now()
	rs, err := model.NewResultSet(in.Results)
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	roster, err := model.NewRoster(in.Picks, in.Standings)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	s.metrics.RecordStage(stageLoad, time.Since(t))

	t = time.Now()
	scored, events := engine.Score(roster, rs)
	for _, e := range events {
		s.logEvent(ctx, log, e)
	}
	s.metrics.RecordPlayersScored(len(scored))
	s.metrics.RecordStage(stageScore, time.Since(t))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t = time.Now()
	weekly, ties := ranking.Weekly(scored)
	for _, tie := range ties {
		s.metrics.RecordTieEvent()
		log.Info(ctx, tie.String(),
			logger.Int("points", tie.Points),
			logger.String("preferred", tie.Preferred),
			logger.String("other", tie.Other),
		)
	}
	s.metrics.RecordStage(stageRank, time.Since(t))

	t = time.Now()
	settled, deltas, err := s.schedule.Settle(weekly)
	if err != nil {
		return nil, fmt.Errorf("payout: %w", err)
	}
	s.metrics.UpdatePot(s.schedule.First + s.schedule.Second + s.schedule.Third)
	s.metrics.UpdateTopPoints(settled[0].WeeklyPoints)
	s.metrics.RecordStage(stageSettle, time.Since(t))

	t = time.Now()
	season := ranking.Season(settled)
	records := standings.Project(settled)
	bestCars := make(map[string]BestCar, len(settled))
	for _, p := range settled {
		car, found := rs.BestCarFound(p.PickList())
		if !found {
			s.metrics.RecordAllPicksMissing()
			log.Warn(ctx, "no pick has a result; using first pick as best car",
				logger.String("player", p.Name),
				logger.Int("car", car),
				logger.Error(model.ErrAllPicksMissing),
			)
		}
		bestCars[p.Name] = BestCar{Car: car, Found: found}
	}
	s.metrics.RecordStage(stageStandings, time.Since(t))

	out := &Outcome{
		RunID:           runID,
		QualifyingBonus: engine.BonusEnabled(),
		Results:         rs.Results(),
		Roster:          ranking.Season(roster),
		Weekly:          settled,
		PickOrder:       ranking.PickOrder(settled, s.pickOrderFrom),
		Season:          season,
		Standings:       records,
		Deltas:          deltas,
		Events:          events,
		Ties:            ties,
		BestCars:        bestCars,
	}

	if s.store != nil {
		t = time.Now()
		if err := s.store.Save(ctx, runID, records); err != nil {
			return nil, fmt.Errorf("save standings: %w", err)
		}
		s.metrics.RecordStage(stageSave, time.Since(t))
		log.Debug(ctx, "standings saved", logger.Int("records", len(records)))
	}
	return out, nil
}

func (s *Service) logEvent(ctx context.Context, log logger.Logger, e scoring.Event) {
	switch e.Kind {
	case scoring.EventMissingResult:
		s.metrics.RecordMissingResult()
		log.Warn(ctx, e.String(),
			logger.String("player", e.Player),
			logger.Int("car", e.Car),
			logger.Error(e.Err()),
		)
	case scoring.EventQualifyingBonus:
		s.metrics.RecordQualifyingBonus()
		log.Info(ctx, e.String(),
			logger.String("player", e.Player),
			logger.Int("car", e.Car),
			logger.Int("start", e.Start),
		)
	}
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		s.logger = logger.Named("pipeline")
	}
	return s.logger
}
