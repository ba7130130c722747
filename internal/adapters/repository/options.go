package repository

import (
	"io/fs"

	"gorm.io/gorm/logger"
)

// Default file permissions for written standings.
const defaultFileMode fs.FileMode = 0o644

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permissions of the written standings file.
func WithFileMode(mode fs.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithStandingsParser sets the function used to read the standings file.
func WithStandingsParser(p StandingsParser) FileOption {
	return func(s *FileStore) {
		if p != nil {
			s.parser = p
		}
	}
}

// GormOption applies a configuration option to the GormStore.
type GormOption func(*gormOptions)

type gormOptions struct {
	table    string
	logLevel logger.LogLevel
}

// WithTable overrides the standings table name.
func WithTable(name string) GormOption {
	return func(o *gormOptions) {
		if name != "" {
			o.table = name
		}
	}
}

// WithSQLLogLevel sets gorm's SQL logging level.
func WithSQLLogLevel(level logger.LogLevel) GormOption {
	return func(o *gormOptions) {
		if level > 0 {
			o.logLevel = level
		}
	}
}
