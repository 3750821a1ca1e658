package extract

import "errors"

var (
	// ErrFetchFailed is returned when the document cannot be retrieved
	// (network failure, timeout, or non-2xx response)
	ErrFetchFailed = errors.New("failed to fetch document")
	// ErrNoContent is returned when the response carries no extractable text
	// (binary body, unsupported content type, or a document too short to analyze)
	ErrNoContent = errors.New("no extractable text content")
)
