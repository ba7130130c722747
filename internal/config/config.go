// Package config defines pool configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"slices"
)

// Store drivers.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// minPickOrderFrom keeps pick-order positions 1-4 out of the adjacent-swap pass.
const minPickOrderFrom = 5

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultResultStatuses lists the finishing status tags the results parser
// recognizes when none are configured.
var DefaultResultStatuses = []string{ //nolint:gochecknoglobals // read-only default table
	"Running", "Accident", "Engine", "Crash", "Transmission", "Suspension",
	"Brakes", "Electrical", "Overheating", "Rear Gear", "Clutch", "Fuel Pump",
	"Oil Pump", "Handling", "Vibration", "DVP", "Parked", "Disqualified",
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log records to JSON.
	LogJSON bool `koanf:"log_json"`

	// ReportFormat selects the report writer: text or json.
	ReportFormat string `koanf:"report_format"`

	// FrontRowCutoff is the start position below which a pick earns the
	// qualifying bonus.
	FrontRowCutoff int `koanf:"front_row_cutoff"`

	// PickOrderFrom is the first 1-indexed pick-order position the
	// adjacent-swap pass may move.
	PickOrderFrom int `koanf:"pick_order_from"`

	// ResultStatuses are the status tags accepted at the end of a results line.
	ResultStatuses []string `koanf:"result_statuses"`

	Payout  PayoutConfig  `koanf:"payout"`
	Store   StoreConfig   `koanf:"store"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// PayoutConfig is the weekly payout table in currency units.
type PayoutConfig struct {
	Ante   int `koanf:"ante"`
	First  int `koanf:"first"`
	Second int `koanf:"second"`
	Third  int `koanf:"third"`
}

// StoreConfig selects where next-race standings are persisted.
type StoreConfig struct {
	// Driver is "file" or "postgres".
	Driver string `koanf:"driver"`
	// Path is the standings file written by the file driver. Empty means the
	// standings are only printed.
	Path string `koanf:"path"`
	// DSN is the PostgreSQL connection string for the postgres driver.
	DSN string `koanf:"dsn"`
}

// MetricsConfig controls where run metrics are exported.
type MetricsConfig struct {
	// Textfile is a node-exporter textfile collector path.
	Textfile string `koanf:"textfile"`
	// Pushgateway is the base URL of a Prometheus Pushgateway.
	Pushgateway string `koanf:"pushgateway"`
	// Job is the job label used when pushing.
	Job string `koanf:"job"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:       "info",
		ReportFormat:   FormatText,
		FrontRowCutoff: 3,
		PickOrderFrom:  5,
		Payout: PayoutConfig{
			Ante:   5,
			First:  15,
			Second: 10,
			Third:  5,
		},
		Store: StoreConfig{
			Driver: StoreFile,
		},
		Metrics: MetricsConfig{
			Job: "pitpool",
		},
	}
	return c
}

// Statuses returns the configured result statuses or the defaults.
func (c *Config) Statuses() []string {
	if len(c.ResultStatuses) == 0 {
		return slices.Clone(DefaultResultStatuses)
	}
	return c.ResultStatuses
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Payout.Ante < 0 || c.Payout.First < 0 || c.Payout.Second < 0 || c.Payout.Third < 0 {
		return fmt.Errorf("%w: payout amounts must not be negative", ErrInvalidConfig)
	}
	if c.FrontRowCutoff < 1 {
		return fmt.Errorf("%w: front_row_cutoff must be at least 1", ErrInvalidConfig)
	}
	if c.PickOrderFrom < minPickOrderFrom {
		return fmt.Errorf("%w: pick_order_from must be at least %d", ErrInvalidConfig, minPickOrderFrom)
	}
	switch c.ReportFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	switch c.Store.Driver {
	case StoreFile:
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	return nil
}
