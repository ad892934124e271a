package index

import "errors"

// Domain errors for index operations.
var (
	// ErrWriteContention marks a transient write conflict; the indexing
	// pipeline retries these with backoff.
	ErrWriteContention = errors.New("index write contention")

	// ErrIndexUnavailable indicates no search backend could execute the
	// query. Fatal to the search request, surfaced as a service error.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrNotProcessing indicates a status flip targeted a document that is
	// not in the processing state.
	ErrNotProcessing = errors.New("document is not processing")
)
