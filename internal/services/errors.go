package services

import (
	"errors"

	"pethaul/internal/repositories"
)

// Error taxonomy shared by every service. Handlers map them to HTTP statuses
// with errors.Is.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = repositories.ErrNotFound
	ErrInsufficientStock = repositories.ErrInsufficientStock
	ErrInvalidState      = errors.New("invalid state")
	ErrConflict          = errors.New("already exists")
	ErrUnauthorized      = errors.New("invalid credentials")
	ErrForbidden         = errors.New("not allowed")
)
