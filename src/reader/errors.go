package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a safe read got fewer bytes than
	// it asked for. Dispatch treats it as "not this format".
	ErrInsufficientData = errors.New("insufficient data")

	// ErrOutOfBounds is returned for seeks outside [0, size].
	ErrOutOfBounds = errors.New("offset out of bounds")
)

// HTTPError is a failed HTTP range request. Retriable reports whether the
// failure was a server-side condition worth retrying (5xx).
type HTTPError struct {
	StatusCode int
	Retriable  bool
}

func (e *HTTPError) Error() string {
	if e.Retriable {
		return fmt.Sprintf("http %d: server error, might want to retry", e.StatusCode)
	}
	return fmt.Sprintf("http %d: server refused the request", e.StatusCode)
}

// CapExceededError is raised when a remote parse runs past one of its
// resource caps. It is fatal to the parse.
type CapExceededError struct {
	Cap   string
	Limit int64
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("%s cap exceeded (limit %d)", e.Cap, e.Limit)
}

// IsFatal reports whether err is an infrastructure failure that should abort
// dispatch rather than being read as "this parser does not match".
func IsFatal(err error) bool {
	var he *HTTPError
	var ce *CapExceededError
	return errors.As(err, &he) || errors.As(err, &ce)
}
