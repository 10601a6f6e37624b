package bridge

import (
	"errors"
	"fmt"
)

// ErrFrameDecode is returned when a serial line is not a valid frame.
// Decode failures are recoverable: the line is dropped and the session
// stays alive.
var ErrFrameDecode = errors.New("bridge: invalid frame")

// Reason classifies why a session terminated.
type Reason string

// Session termination reasons, in the order the stages can fail.
const (
	ReasonSerialOpenFailed Reason = "serial_open_failed"
	ReasonLockFailed       Reason = "device_lock_failed"
	ReasonBusConnectFailed Reason = "bus_connect_failed"
	ReasonSerialFailed     Reason = "serial_io_failed"
)

// SessionError carries a structured termination reason out of a session,
// with the underlying cause available via errors.Unwrap for diagnostics.
type SessionError struct {
	Reason Reason
	Err    error
}

func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session terminated (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("session terminated (%s)", e.Reason)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// newSessionError wraps a stage failure with its termination reason.
func newSessionError(reason Reason, err error) *SessionError {
	return &SessionError{Reason: reason, Err: err}
}
