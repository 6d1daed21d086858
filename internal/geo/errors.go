package geo

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a geolocation failure. Every kind maps to a distinct
// user-facing message and the same recovery affordance: retry or set the
// location manually on the map.
type Kind string

const (
	KindPermissionDenied    Kind = "permission_denied"
	KindPositionUnavailable Kind = "position_unavailable"
	KindTimeout             Kind = "timeout"
	KindUnsupported         Kind = "unsupported"
)

var messages = map[Kind]string{
	KindPermissionDenied:    "Location permission denied. Please enable location services or use the map to set your location manually.",
	KindPositionUnavailable: "Location information is unavailable. Please try again later or use the map to set your location manually.",
	KindTimeout:             "Location request timed out. Please try again or use the map to set your location manually.",
	KindUnsupported:         "Location detection is not supported on this device. Please use the map to set your location manually.",
}

// Error is a classified geolocation failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("geolocation %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing text for the failure.
func (e *Error) Message() string {
	if msg, ok := messages[e.Kind]; ok {
		return msg
	}
	return messages[KindPositionUnavailable]
}

// Classify wraps an arbitrary provider error into *Error. Context deadline
// failures become timeouts; already-classified errors pass through.
func Classify(err error) *Error {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindPositionUnavailable, Err: err}
}
