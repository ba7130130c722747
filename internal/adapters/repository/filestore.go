package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/pitpool/internal/adapters/parser"
	"github.com/okian/pitpool/internal/domain/model"
	"github.com/okian/pitpool/internal/domain/standings"
)

// StandingsParser reads standings records from r.
type StandingsParser func(ctx context.Context, r io.Reader) ([]model.Standing, error)

// FileStore keeps standings in the text format the pool's totals file uses,
// so a saved file can be passed as the next race's totals input.
type FileStore struct {
	path   string
	mode   fs.FileMode
	parser StandingsParser
}

// NewFileStore creates a FileStore backed by path.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{
		path:   path,
		mode:   defaultFileMode,
		parser: parser.New().Standings,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the standings file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the standings file.
func (s *FileStore) Load(ctx context.Context) ([]model.Standing, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	defer func() { _ = f.Close() }()

	records, err := s.parser(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(s.path), err)
	}
	return records, nil
}

// Save writes the standings to a temporary file next to path and renames it
// into place, so a failed write never leaves a truncated standings file.
func (s *FileStore) Save(ctx context.Context, runID string, records []model.Standing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	if runID != "" {
		_, _ = fmt.Fprintf(w, "# pitpool run %s\n", runID)
	}
	for _, line := range standings.Lines(records) {
		_, _ = fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := tmp.Chmod(s.mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}
