package llm

import "errors"

var (
	// ErrMissingAPIKey is returned when the client is constructed without an API key
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrClassification is returned when a chunk classification call fails or
	// returns data that does not conform to the expected schema
	ErrClassification = errors.New("chunk classification failed")
	// ErrSummarization is returned when the summarization call fails or
	// returns unusable output
	ErrSummarization = errors.New("document summarization failed")
)
