package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrURLRequired is returned when the analyze request has no URL
	ErrURLRequired = errors.New("url is required")
	// ErrInvalidURL is returned when the URL is not an absolute http or https URL
	ErrInvalidURL = errors.New("url must be an absolute http or https URL")
	// ErrStorageNotConfigured is returned when a lookup is attempted without persistence
	ErrStorageNotConfigured = errors.New("analysis storage not configured")
)
