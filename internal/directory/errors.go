package directory

import "errors"

var (
	// ErrEmptyQuery is returned when a lookup is attempted with a blank value.
	ErrEmptyQuery = errors.New("directory: empty query")

	// ErrUnavailable wraps transport-level failures (connectivity, non-2xx
	// responses, undecodable bodies). Callers surface it as a generic
	// fetch failure rather than a validation outcome.
	ErrUnavailable = errors.New("directory: service unavailable")
)
