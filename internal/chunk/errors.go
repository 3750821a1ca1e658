package chunk

import "errors"

var (
	// ErrInvalidChunkSize is returned when MaxChars or OverlapChars is out of range
	ErrInvalidChunkSize = errors.New("chunk max size must be positive and overlap non-negative")
	// ErrOverlapExceedsSize is returned when the overlap is not smaller than the chunk size
	ErrOverlapExceedsSize = errors.New("chunk overlap must be smaller than max size")
)
