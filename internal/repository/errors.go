package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrPreconditionFailed is returned when a conditional update matched no
	// rows: the guarded prior state no longer holds. Callers decide whether
	// that means a lost race or a missing entity.
	ErrPreconditionFailed = errors.New("conditional update precondition failed")
)
