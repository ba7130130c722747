// Package metrics provides Prometheus metrics for pool scoring runs.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager manages all Prometheus metrics for a pool run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Run Metrics
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	lastRunUnix   prometheus.Gauge

	// Scoring Metrics
	playersScored    prometheus.Counter
	qualifyingBonus  prometheus.Counter
	missingResults   prometheus.Counter
	tieEvents        prometheus.Counter
	allPicksMissing  prometheus.Counter
	lastRunPlayers   prometheus.Gauge
	lastRunPot       prometheus.Gauge
	lastRunTopPoints prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitpool",
		subsystem:        "race",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		constLabels:      make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of scoring runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of a complete scoring run",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Wall time of each pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time of the last successful run",
		ConstLabels: m.constLabels,
	})

	m.playersScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_scored_total",
		Help:        "Total number of players scored",
		ConstLabels: m.constLabels,
	})

	m.qualifyingBonus = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "qualifying_bonus_total",
		Help:        "Total number of qualifying bonus points awarded",
		ConstLabels: m.constLabels,
	})

	m.missingResults = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "missing_results_total",
		Help:        "Total number of picks without a race result",
		ConstLabels: m.constLabels,
	})

	m.allPicksMissing = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "all_picks_missing_total",
		Help:        "Total number of players whose best car fell back to the first pick",
		ConstLabels: m.constLabels,
	})

	m.tieEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tie_events_total",
		Help:        "Total number of weekly ties broken on season points",
		ConstLabels: m.constLabels,
	})

	m.lastRunPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_players",
		Help:        "Number of players in the last run",
		ConstLabels: m.constLabels,
	})

	m.lastRunPot = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_pot",
		Help:        "Sum of the podium payouts in the last run",
		ConstLabels: m.constLabels,
	})

	m.lastRunTopPoints = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_top_points",
		Help:        "Weekly points of the winner of the last run",
		ConstLabels: m.constLabels,
	})
}

// Registry returns the manager's registry.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordRun counts a finished run and its duration.
func (m *Manager) RecordRun(outcome string, d time.Duration) {
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(d.Seconds())
	if outcome == OutcomeSuccess {
		m.lastRunUnix.SetToCurrentTime()
	}
}

// RecordStage records the duration of one pipeline stage.
func (m *Manager) RecordStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordPlayersScored adds n scored players.
func (m *Manager) RecordPlayersScored(n int) {
	m.playersScored.Add(float64(n))
	m.lastRunPlayers.Set(float64(n))
}

// RecordQualifyingBonus counts one awarded bonus point.
func (m *Manager) RecordQualifyingBonus() { m.qualifyingBonus.Inc() }

// RecordMissingResult counts one pick without a result.
func (m *Manager) RecordMissingResult() { m.missingResults.Inc() }

// RecordAllPicksMissing counts one best-car fallback.
func (m *Manager) RecordAllPicksMissing() { m.allPicksMissing.Inc() }

// RecordTieEvent counts one weekly tie.
func (m *Manager) RecordTieEvent() { m.tieEvents.Inc() }

// UpdatePot sets the podium payout total of the last run.
func (m *Manager) UpdatePot(pot int) { m.lastRunPot.Set(float64(pot)) }

// UpdateTopPoints sets the winner's weekly points of the last run.
func (m *Manager) UpdateTopPoints(points int) { m.lastRunTopPoints.Set(float64(points)) }

// WriteTextfile writes every metric in the text exposition format to path,
// for the node-exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: textfile %s: %w", ErrExport, path, err)
	}
	return nil
}

// Push sends every metric to a Pushgateway under job, grouped by run id.
func (m *Manager) Push(ctx context.Context, url, job, runID string) error {
	p := push.New(url, job).Gatherer(m.registry)
	if runID != "" {
		p = p.Grouping("run_id", runID)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("%w: push %s: %w", ErrExport, url, err)
	}
	return nil
}

// Default returns the global metrics manager.
func Default() *Manager { return globalManager }
