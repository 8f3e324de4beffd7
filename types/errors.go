package types

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput indicates malformed, empty or too-short content, or a
	// bad search parameter. Rejected before any side effect.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSourceType indicates a source type outside the closed enum.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrInvalidStateTransition indicates an illegal submission transition,
	// e.g. approving a submission that is no longer pending.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrEmbeddingUnavailable indicates the embedding gateway failed or
	// timed out. Transient; the ingestion orchestrator retries it with
	// bounded backoff.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrStoreWriteFailure indicates a persistence layer error. Surfaced as
	// a failed ingestion, never silently swallowed.
	ErrStoreWriteFailure = errors.New("store write failure")

	// ErrNotFound indicates a submission or document does not exist.
	ErrNotFound = errors.New("not found")
)

// HTTPStatusCode maps a pipeline error to the status the thin routing layer
// should answer with.
func HTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidSourceType):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
