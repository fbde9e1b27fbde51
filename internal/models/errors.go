package models

import "errors"

// Domain error taxonomy. Handlers map these onto HTTP status codes with
// errors.Is; services wrap them with fmt.Errorf("%w: ...") to carry detail.
var (
	// ErrValidation marks malformed input (negative measurement, missing
	// timestamp). The caller must fix the input; it is never retried.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownSegment marks an observation referencing a segment that was
	// never registered. Policy (auto-register upstream or drop) belongs to
	// the ingestion caller.
	ErrUnknownSegment = errors.New("unknown segment")

	// ErrNotFound is a lookup miss, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable means the underlying database is unreachable.
	// Retry policy belongs to the external ingestion trigger.
	ErrStoreUnavailable = errors.New("store unavailable")
)
