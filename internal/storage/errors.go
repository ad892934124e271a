package storage

import "errors"

// Domain errors for storage operations.
var (
	ErrNotFound         = errors.New("storage key not found")
	ErrInvalidKey       = errors.New("invalid storage key")
	ErrPermissionDenied = errors.New("storage permission denied")
)
