package analyzer

import "errors"

var (
	// ErrNilExtractor is returned when the analyzer is built without an extractor
	ErrNilExtractor = errors.New("extractor is required")
	// ErrNilClassifier is returned when the analyzer is built without a classifier
	ErrNilClassifier = errors.New("classifier is required")
	// ErrDeadlineExceeded is returned when the overall analysis deadline is
	// exceeded; in-flight work is cancelled and partial results are discarded
	ErrDeadlineExceeded = errors.New("analysis deadline exceeded")
)
