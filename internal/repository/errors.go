package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the unique email constraint rejects an insert.
	ErrDuplicateEmail = errors.New("email already exists")
)
