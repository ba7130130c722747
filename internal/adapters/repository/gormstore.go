package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/okian/pitpool/internal/domain/model"
)

const defaultTable = "standings"

// StandingRow is one persisted standings record.
type StandingRow struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"size:36;not null;index"`
	Position    int    `gorm:"not null"`
	Name        string `gorm:"size:64;not null"`
	SeasonTotal int    `gorm:"not null;default:0"`
	Balance     int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
}

// GormStore keeps every run's standings in a SQL table; Load returns the
// latest run.
type GormStore struct {
	db    *gorm.DB
	table string
}

// OpenPostgres connects to PostgreSQL and migrates the standings table.
func OpenPostgres(ctx context.Context, dsn string, opts ...GormOption) (*GormStore, error) {
	o := applyGormOptions(opts)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %w", ErrStore, err)
	}
	s := NewGormStore(db, opts...)
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGormStore wraps an open gorm connection of any dialect. The caller
// migrates.
func NewGormStore(db *gorm.DB, opts ...GormOption) *GormStore {
	o := applyGormOptions(opts)
	return &GormStore{db: db, table: o.table}
}

func applyGormOptions(opts []GormOption) gormOptions {
	o := gormOptions{table: defaultTable, logLevel: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Migrate creates or updates the standings table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&StandingRow{}); err != nil {
		return fmt.Errorf("%w: migrate %s: %w", ErrStore, s.table, err)
	}
	return nil
}

// Load returns the standings of the most recently saved run.
func (s *GormStore) Load(ctx context.Context) ([]model.Standing, error) {
	db := s.db.WithContext(ctx).Table(s.table)

	var latest StandingRow
	err := db.Order("created_at DESC").Order("id DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: table %s is empty", ErrNotFound, s.table)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	var rows []StandingRow
	if err := s.db.WithContext(ctx).Table(s.table).
		Where("run_id = ?", latest.RunID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return fromRows(rows), nil
}

// Save inserts all records of a run in one transaction.
func (s *GormStore) Save(ctx context.Context, runID string, records []model.Standing) error {
	if len(records) == 0 {
		return nil
	}
	rows := toRows(runID, records, time.Now().UTC())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table(s.table).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("%w: save run %s: %w", ErrStore, runID, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRows(runID string, records []model.Standing, at time.Time) []StandingRow {
	rows := make([]StandingRow, len(records))
	for i, r := range records {
		rows[i] = StandingRow{
			RunID:       runID,
			Position:    i + 1,
			Name:        r.Name,
			SeasonTotal: r.SeasonTotal,
			Balance:     r.Balance,
			CreatedAt:   at,
		}
	}
	return rows
}

func fromRows(rows []StandingRow) []model.Standing {
	out := make([]model.Standing, len(rows))
	for i, r := range rows {
		out[i] = model.Standing{Name: r.Name, SeasonTotal: r.SeasonTotal, Balance: r.Balance}
	}
	return out
}
