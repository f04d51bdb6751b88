// Package session runs one call answering session on a Hayes modem: arm
// auto-answer, wait for a ring, answer, adjust the line speed, validate the
// carrier, send two framed messages and hang up.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"i4.energy/across/answerd/modem"
)

var (
	// ErrNoModem is returned by New without a modem.
	ErrNoModem = errors.New("session: modem is required")

	// ErrInvalidConfig is returned by New for settings that cannot work,
	// such as a zero ring wait timeout.
	ErrInvalidConfig = errors.New("session: invalid configuration")
)

// Metrics counts what happened during the session.
type Metrics struct {
	Rings            int
	Speed            int
	BytesSent        int
	CarrierChecks    int
	RecoveryAttempts int
	Started          time.Time
	Connected        time.Time
	Ended            time.Time
}

// Status is a snapshot of the session for the status endpoint.
type Status struct {
	State            string `json:"state"`
	Mode             string `json:"mode"`
	Rings            int    `json:"rings"`
	Speed            int    `json:"speed"`
	BytesSent        int    `json:"bytes_sent"`
	RecoveryAttempts int    `json:"recovery_attempts"`
}

// Session drives the call state machine. All operations must be called
// from one goroutine; only State, Status and Metrics may be read
// concurrently.
type Session struct {
	modem  *modem.Modem
	config Config
	logger *slog.Logger

	// mu guards state and metrics for concurrent readers.
	mu      sync.Mutex
	state   State
	metrics Metrics

	completed    bool
	hungUp       bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Session on an open modem.
func New(m *modem.Modem, config Config) (*Session, error) {
	if m == nil {
		return nil, ErrNoModem
	}
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Session{
		modem:   m,
		config:  config,
		logger:  config.Logger.With("component", "session"),
		state:   StateIdle,
		metrics: Metrics{Started: time.Now()},
	}, nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Metrics returns a copy of the session counters.
func (s *Session) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// Status returns a snapshot of state and counters.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:            s.state.String(),
		Mode:             s.config.Mode.String(),
		Rings:            s.metrics.Rings,
		Speed:            s.metrics.Speed,
		BytesSent:        s.metrics.BytesSent,
		RecoveryAttempts: s.metrics.RecoveryAttempts,
	}
}

func (s *Session) transition(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()

	if prev == next {
		return
	}
	s.logger.Info("state transition", "from", prev, "to", next)
	if s.config.OnTransition != nil {
		s.config.OnTransition(prev, next)
	}
}

func (s *Session) update(f func(m *Metrics)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.metrics)
}

// Run drives a complete session. A modem or timeout failure while waiting
// for the call gets one recovery cycle and one more wait. The line is hung
// up and closed before Run returns. It returns nil only if the data phase
// completed and the call was hung up.
func (s *Session) Run(ctx context.Context) error {
	defer s.Shutdown()

	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if err := s.ArmAutoAnswer(ctx); err != nil {
		return err
	}

	outcome, err := s.Monitor(ctx)
	if err != nil && s.config.Recovery && ctx.Err() == nil {
		switch s.Recover(ctx, err) {
		case RecoverySuccess:
			outcome, err = s.Monitor(ctx)
		case RecoveryExhausted:
			return fmt.Errorf("recovery exhausted: %w", err)
		}
	}
	if err != nil {
		return fmt.Errorf("wait for call: %w", err)
	}

	if err := s.AdjustSpeed(outcome); err != nil {
		return err
	}

	if s.config.Validation {
		report, err := s.Validate(ctx)
		if err != nil {
			s.logger.Warn("connection validation failed", "error", err)
		} else if report.Degraded {
			s.logger.Warn("connection quality degraded",
				"carrier_ratio", report.Ratio, "error_tokens", report.ErrorTokens)
		}
	}

	if err := s.DataPhase(ctx); err != nil {
		return fmt.Errorf("data phase: %w", err)
	}
	s.Hangup()

	s.completed = true
	return nil
}

// Completed reports whether Run got through the data phase and hangup.
func (s *Session) Completed() bool {
	return s.completed
}

// Shutdown hangs up a call that may be in progress and closes the modem.
// Only the first call has an effect; later calls return the same result.
func (s *Session) Shutdown() error {
	s.shutdownOnce.Do(func() {
		if s.State() >= StateMonitoring && !s.hungUp {
			s.Hangup()
		}
		s.shutdownErr = s.modem.Close()
		s.update(func(m *Metrics) { m.Ended = time.Now() })
		s.transition(StateClosed)
		if s.config.TimingLog {
			s.logTiming()
		}
	})
	return s.shutdownErr
}

func (s *Session) logTiming() {
	m := s.Metrics()
	attrs := []any{
		"duration", m.Ended.Sub(m.Started).Round(time.Millisecond),
		"rings", m.Rings,
		"speed", m.Speed,
		"bytes_sent", m.BytesSent,
		"carrier_checks", m.CarrierChecks,
		"recovery_attempts", m.RecoveryAttempts,
	}
	if !m.Connected.IsZero() {
		attrs = append(attrs, "connected_after", m.Connected.Sub(m.Started).Round(time.Millisecond))
	}
	s.logger.Info("session timing", attrs...)
}

// sleepCtx pauses for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
