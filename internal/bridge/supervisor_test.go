package bridge

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSupervisorReturnsFirstFailure(t *testing.T) {
	sessionErr := newSessionError(ReasonSerialOpenFailed, errors.New("no such device"))

	var calls atomic.Int32
	s := &Supervisor{
		Session: func(ctx context.Context) error {
			calls.Add(1)
			return sessionErr
		},
	}

	err := s.Run(context.Background())
	if !errors.Is(err, sessionErr) {
		t.Errorf("Run() error = %v, want session error", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("session ran %d times, want 1", got)
	}
}

func TestSupervisorRestartsOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	s := &Supervisor{
		Session: func(ctx context.Context) error {
			if calls.Add(1) >= 3 {
				cancel()
				return ctx.Err()
			}
			return newSessionError(ReasonBusConnectFailed, errors.New("connection refused"))
		},
		RestartOnFailure: true,
		RestartDelay:     time.Millisecond,
	}

	if err := s.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil on cancellation", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("session ran %d times, want 3", got)
	}
}

func TestSupervisorStopsDuringRestartDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{}, 1)
	s := &Supervisor{
		Session: func(ctx context.Context) error {
			started <- struct{}{}
			return newSessionError(ReasonSerialFailed, errors.New("read failed"))
		},
		RestartOnFailure: true,
		RestartDelay:     time.Hour,
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop during restart delay")
	}
}

func TestSupervisorCleanSessionReturn(t *testing.T) {
	s := &Supervisor{
		Session:          func(ctx context.Context) error { return nil },
		RestartOnFailure: true,
		RestartDelay:     time.Millisecond,
	}

	if err := s.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v, want nil for clean session return", err)
	}
}

func TestReasonOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{"session error", newSessionError(ReasonLockFailed, errors.New("locked")), ReasonLockFailed},
		{"wrapped session error", errors.Join(errors.New("outer"), newSessionError(ReasonSerialFailed, errors.New("io"))), ReasonSerialFailed},
		{"plain error", errors.New("plain"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reasonOf(tt.err); got != tt.want {
				t.Errorf("reasonOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
