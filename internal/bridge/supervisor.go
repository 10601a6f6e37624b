package bridge

import (
	"context"
	"errors"
	"time"
)

// defaultRestartDelay is the pause between session attempts.
const defaultRestartDelay = 3 * time.Second

// SessionFunc runs one bridge session to completion.
type SessionFunc func(ctx context.Context) error

// Supervisor runs sessions in a loop with an explicit restart policy.
//
// Without RestartOnFailure the first session failure is returned to the
// caller. With it, every failure is logged and a fresh session started
// after RestartDelay, until the context is cancelled.
type Supervisor struct {
	// Session runs one session; required.
	Session SessionFunc

	// RestartOnFailure restarts sessions instead of returning the error.
	RestartOnFailure bool

	// RestartDelay is the pause before a restart; defaults to 3 seconds.
	RestartDelay time.Duration

	// Debug includes the underlying cause in the termination log line.
	Debug bool

	// Logger is an optional structured logger.
	Logger Logger
}

// Run executes sessions until cancellation or, when restarts are
// disabled, until the first session failure.
//
// Returns:
//   - error: nil on cancellation, otherwise the last session error
func (s *Supervisor) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	delay := s.RestartDelay
	if delay <= 0 {
		delay = defaultRestartDelay
	}

	for {
		err := s.Session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			// A session only ends cleanly on cancellation; treat an early
			// clean return as termination.
			return nil
		}

		args := []any{"reason", reasonOf(err)}
		if s.Debug {
			args = append(args, "cause", err)
		}
		logger.Error("session terminated", args...)

		if !s.RestartOnFailure {
			return err
		}

		logger.Info("restarting session", "delay", delay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// reasonOf extracts the session failure reason, or "unknown" for errors
// that did not originate in the session lifecycle.
func reasonOf(err error) Reason {
	var sessionErr *SessionError
	if errors.As(err, &sessionErr) {
		return sessionErr.Reason
	}
	return "unknown"
}
