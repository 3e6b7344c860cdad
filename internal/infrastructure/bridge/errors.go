package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when no host surface exists at the socket path.
	ErrUnavailable = errors.New("bridge is not available")
	// ErrMethodNotFound is returned when the host does not expose the method.
	ErrMethodNotFound = errors.New("bridge method not found")
	// ErrInvalidResponse is returned when the host answer cannot be decoded
	// into the {ok, ...payload} shape.
	ErrInvalidResponse = errors.New("malformed bridge response")
)

// CallError reports a bridge call that reached the host but failed: either
// the transport broke mid-call or the host answered {ok:false, error:CODE}.
type CallError struct {
	Method string
	Code   string
	Err    error
}

func (e *CallError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("bridge call %s failed: %s", e.Method, e.Code)
	}
	return fmt.Sprintf("bridge call %s failed: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
