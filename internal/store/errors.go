package store

import "errors"

var (
	// ErrNoStorageDir is returned when the store is opened without a directory
	ErrNoStorageDir = errors.New("storage directory is required")
	// ErrOpenDatabase is returned when the database cannot be opened or initialized
	ErrOpenDatabase = errors.New("failed to open analysis database")
	// ErrNotFound is returned when no analysis exists for the requested ID
	ErrNotFound = errors.New("analysis not found")
)
