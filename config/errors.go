package config

import "errors"

var (
	// ErrInvalidChunkBounds is returned when chunker sizes are non-positive
	ErrInvalidChunkBounds = errors.New("chunker maxChars must be positive and overlapChars non-negative")
	// ErrOverlapTooLarge is returned when the chunk overlap is not smaller than the chunk size
	ErrOverlapTooLarge = errors.New("chunker overlapChars must be smaller than maxChars")
	// ErrInvalidConcurrency is returned when the analyzer concurrency cap is non-positive
	ErrInvalidConcurrency = errors.New("analyzer concurrency must be positive")
	// ErrInvalidDeadline is returned when the analyzer deadline is non-positive
	ErrInvalidDeadline = errors.New("analyzer deadline must be positive")
)
