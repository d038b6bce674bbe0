package editor

import (
	"errors"

	"mapedit/obstacles"
)

// Local errors. These block the action and never reach the backend.
var (
	ErrDuplicateStart     = errors.New("the map already has a start point")
	ErrMissingStart       = errors.New("place a start point before the end point")
	ErrEmptyName          = errors.New("the name must not be empty")
	ErrInsufficientPoints = obstacles.ErrInsufficientPoints
	ErrRequestInFlight    = errors.New("a request of this kind is still in flight")
)

// BackendRejectedError is a failure learned from a round trip: either the
// backend answered success=false or the request itself failed.
type BackendRejectedError struct {
	Message string
	Err     error // transport or decoding error, nil for a backend rejection
}

func (e *BackendRejectedError) Error() string {
	return e.Message
}

func (e *BackendRejectedError) Unwrap() error {
	return e.Err
}

// rejectionKind labels a local error for metrics.
func rejectionKind(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateStart):
		return "duplicate_start"
	case errors.Is(err, ErrMissingStart):
		return "missing_start"
	case errors.Is(err, ErrEmptyName):
		return "empty_name"
	case errors.Is(err, ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, ErrRequestInFlight):
		return "request_in_flight"
	default:
		return "other"
	}
}
