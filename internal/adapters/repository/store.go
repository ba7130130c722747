// Package repository persists season standings between races.
package repository

import (
	"context"

	"github.com/okian/pitpool/internal/domain/model"
)

// Store provides read/write access to the carry-forward standings.
type Store interface {
	// Load returns the standings written by the most recent run.
	// Returns ErrNotFound if nothing was saved yet.
	Load(ctx context.Context) ([]model.Standing, error)

	// Save persists the next race's standings for a run, replacing what
	// Load returns. Records are kept in the order given.
	Save(ctx context.Context, runID string, records []model.Standing) error
}
