package repositories

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when a conditional stock decrement matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStaleState is returned when a conditional state update matched no row.
	ErrStaleState = errors.New("stale state")
)
