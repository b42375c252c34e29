package model

import "errors"

var (
	// ErrValidation marks bad input: non-positive target, inverted or empty
	// date range, out-of-range hour amount, blank title.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEntry is returned when a session is logged twice for one day.
	ErrDuplicateEntry = errors.New("entry already logged for this date")

	// ErrNotFound is returned for an unknown goal id or an unlogged date.
	ErrNotFound = errors.New("not found")

	// ErrStorageCorrupt means the persisted collection exists but cannot be parsed.
	ErrStorageCorrupt = errors.New("storage corrupt")

	// ErrConflict means another writer saved the collection after it was loaded.
	ErrConflict = errors.New("storage changed since load")
)
