package model

import "errors"

// Fatal error kinds. Any of these aborts the run before output is written.
var (
	ErrMalformedRecord     = errors.New("malformed record")
	ErrUnresolvedPlayer    = errors.New("unresolved player")
	ErrInsufficientPlayers = errors.New("insufficient players")
)

// Soft error kinds. They are reported as events and never returned from a run.
var (
	ErrMissingResult   = errors.New("car did not qualify / result missing")
	ErrAllPicksMissing = errors.New("no pick has a result")
)
