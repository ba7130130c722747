package repository

import "errors"

// Sentinel kinds for standings store errors.
var (
	ErrNotFound = errors.New("standings not found")
	ErrStore    = errors.New("standings store failed")
)
