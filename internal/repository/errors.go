package repository

import "errors"

var (
	// ErrDuplicatePhone is returned when a registration reuses a phone number.
	ErrDuplicatePhone = errors.New("phone number already registered")
	// ErrStateConflict is returned when a guarded update matched no row
	// because the row is no longer in the expected state.
	ErrStateConflict = errors.New("row not in expected state")
)
