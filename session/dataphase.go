package session

import (
	"context"
	"errors"
	"fmt"

	"i4.energy/across/answerd/at"
	"i4.energy/across/answerd/modem"
)

// Frame wraps a message in CR LF on both sides.
func Frame(text string) []byte {
	return []byte(at.CRLF + text + at.CRLF)
}

// DataPhase sends the two framed messages with the configured waits around
// them. Carrier is checked again before the second message and its loss
// aborts the phase.
func (s *Session) DataPhase(ctx context.Context) error {
	s.transition(StateDataPhase)

	if err := sleepCtx(ctx, s.config.ClientSettle); err != nil {
		return err
	}
	if err := s.send(ctx, "first", s.config.FirstMessage); err != nil {
		return err
	}

	if err := sleepCtx(ctx, s.config.MessageGap); err != nil {
		return err
	}
	if s.config.CarrierDetect {
		present, err := s.modem.Carrier()
		if err != nil {
			return fmt.Errorf("carrier check: %w", err)
		}
		if !present {
			s.logger.Warn("carrier lost before second message")
			return fmt.Errorf("%w: carrier lost before second message", modem.ErrHangup)
		}
	}
	if err := s.send(ctx, "second", s.config.SecondMessage); err != nil {
		return err
	}

	return sleepCtx(ctx, s.config.FinalWait)
}

func (s *Session) send(ctx context.Context, label, text string) error {
	frame := Frame(text)
	n, err := s.modem.ChunkedSend(frame)
	s.update(func(m *Metrics) { m.BytesSent += n })
	if err != nil {
		s.logger.Error("transmission failed", "message", label, "sent", n, "total", len(frame), "error", err)
		return fmt.Errorf("send %s message: %w", label, err)
	}
	s.logger.Info("message sent", "message", label, "bytes", n)
	return nil
}

// Hangup puts the modem on hook. It reverts to ignoring carrier, sends the
// hangup command with a short timeout and then drops DTR whatever the
// command returned. Failures are logged only; Hangup always succeeds.
func (s *Session) Hangup() {
	if s.modem.Closed() {
		return
	}
	s.transition(StateHangingUp)
	s.logger.Info("hanging up")

	if err := s.modem.Flush(); err != nil {
		s.logger.Debug("flush before hangup", "error", err)
	}
	if err := sleepCtx(context.Background(), s.config.HangupSettle); err != nil {
		s.logger.Debug("hangup settle", "error", err)
	}
	if err := s.modem.DisableCarrierSensing(); err != nil {
		s.logger.Warn("cannot disable carrier detect", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.HangupTimeout)
	defer cancel()
	_, err := s.modem.Exec(ctx, s.config.HangupCommand)
	switch {
	case err == nil:
		s.logger.Info("hangup command accepted")
	case errors.Is(err, modem.ErrTimeout):
		s.logger.Info("hangup command timed out, line may already be down")
	default:
		s.logger.Info("hangup command completed", "error", err)
	}

	if err := s.modem.DropDTR(); err != nil {
		s.logger.Info("DTR drop completed with warning, line may already be down", "error", err)
	}
	if err := s.modem.Flush(); err != nil {
		s.logger.Debug("flush after hangup", "error", err)
	}
	s.hungUp = true
	s.logger.Info("hangup completed")
}
