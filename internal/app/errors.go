package service

import (
	"github.com/okian/academy/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	// ErrNotFound is returned when the requested player has no record.
	ErrNotFound = repository.ErrNotFound
)
