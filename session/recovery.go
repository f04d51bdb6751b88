package session

import (
	"context"
	"fmt"

	"i4.energy/across/answerd/modem"
)

// Recover tries to bring the modem back after cause, at most
// MaxRecoveryAttempts times with RecoveryPause between attempts.
//
// Modem errors are handled by a reset followed by re-arming auto-answer.
// Timeouts are handled by flushing, waking the modem with a bare CR and
// probing it. Other failure classes are not recoverable and consume no
// attempt. Success only means the phase may be tried again.
func (s *Session) Recover(ctx context.Context, cause error) RecoveryOutcome {
	kind := modem.Classify(cause)
	if kind != modem.KindModem && kind != modem.KindTimeout {
		s.logger.Error("failure is not recoverable", "kind", kind, "error", cause)
		return RecoveryNotRecoverable
	}

	s.transition(StateRecovering)
	attempts := s.config.MaxRecoveryAttempts
	for attempt := 1; attempt <= attempts; attempt++ {
		s.update(func(m *Metrics) { m.RecoveryAttempts++ })
		s.logger.Info("recovery attempt", "attempt", attempt, "of", attempts, "kind", kind)

		err := s.recoverOnce(ctx, kind)
		if err == nil {
			s.logger.Info("recovery succeeded", "attempt", attempt)
			return RecoverySuccess
		}
		s.logger.Warn("recovery attempt failed", "attempt", attempt, "error", err)

		if attempt < attempts {
			if err := sleepCtx(ctx, s.config.RecoveryPause); err != nil {
				break
			}
		}
	}
	s.logger.Error("recovery exhausted", "attempts", attempts)
	return RecoveryExhausted
}

func (s *Session) recoverOnce(ctx context.Context, kind modem.ErrorKind) error {
	if kind == modem.KindModem {
		if _, err := s.modem.ExecSequence(ctx, s.config.ResetCommand, s.config.ATTimeout); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		if err := s.armAutoAnswer(ctx); err != nil {
			return fmt.Errorf("re-arm auto-answer: %w", err)
		}
		return nil
	}

	if err := s.modem.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := s.modem.WakeUp(); err != nil {
		return fmt.Errorf("wake up: %w", err)
	}
	if err := sleepCtx(ctx, s.config.WakeUpPause); err != nil {
		return err
	}
	probeCtx, cancel := context.WithTimeout(ctx, s.config.ATTimeout)
	defer cancel()
	if _, err := s.modem.Exec(probeCtx, s.config.ProbeCommand); err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	return nil
}
