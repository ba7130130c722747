package service

import (
	repository "github.com/okian/pitpool/internal/adapters/repository"
	"github.com/okian/pitpool/internal/domain/payout"
	"github.com/okian/pitpool/pkg/logger"
	"github.com/okian/pitpool/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSchedule sets the weekly payout table.
func WithSchedule(schedule payout.Schedule) Option {
	return func(s *Service) {
		s.schedule = schedule
	}
}

// WithFrontRowCutoff sets the start position below which a pick earns the
// qualifying bonus.
func WithFrontRowCutoff(cutoff int) Option {
	return func(s *Service) {
		if cutoff >= 1 {
			s.frontRowCutoff = cutoff
		}
	}
}

// WithPickOrderFrom sets the first 1-indexed position the pick-order pass may move.
func WithPickOrderFrom(from int) Option {
	return func(s *Service) {
		if from >= 1 {
			s.pickOrderFrom = from
		}
	}
}

// WithStore persists the next race's standings at the end of a successful run.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithMetrics records run metrics on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}
