package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"i4.energy/across/answerd/at"
	"i4.energy/across/answerd/modem"
)

// Initialize sends the init command string. A failure is fatal to the
// session.
func (s *Session) Initialize(ctx context.Context) error {
	s.logger.Info("initializing modem", "commands", s.config.InitCommand)
	if _, err := s.modem.ExecSequence(ctx, s.config.InitCommand, s.config.ATTimeout); err != nil {
		s.logger.Error("modem initialization failed", "error", err)
		return fmt.Errorf("initialize modem: %w", err)
	}
	s.transition(StateInitialized)
	return nil
}

// ArmAutoAnswer sends the auto-answer command string of the configured mode.
func (s *Session) ArmAutoAnswer(ctx context.Context) error {
	if err := s.armAutoAnswer(ctx); err != nil {
		s.logger.Error("setting auto-answer failed", "mode", s.config.Mode, "error", err)
		return fmt.Errorf("arm auto-answer: %w", err)
	}
	s.transition(StateAutoAnswerArmed)
	return nil
}

func (s *Session) armAutoAnswer(ctx context.Context) error {
	_, err := s.modem.ExecSequence(ctx, s.config.autoAnswerCommand(), s.config.ATTimeout)
	return err
}

// Monitor waits for an incoming call until the ring wait timeout.
//
// In hardware mode rings are counted and the modem answers on its own; the
// call is connected when a CONNECT line arrives, which must happen within
// the connect timeout counted from the first ring. In software mode the
// call is answered with the answer command once the ring count is reached.
//
// Cancellation of ctx ends the wait as if the deadline had passed.
func (s *Session) Monitor(ctx context.Context) (CallOutcome, error) {
	s.transition(StateMonitoring)
	s.logger.Info("waiting for call", "mode", s.config.Mode, "timeout", s.config.RingWaitTimeout)

	var (
		deadline        = time.Now().Add(s.config.RingWaitTimeout)
		connectDeadline time.Time
		lastRing        time.Time
		rings           int
	)

	for {
		limit := deadline
		if !connectDeadline.IsZero() && connectDeadline.Before(limit) {
			limit = connectDeadline
		}
		idleCheck := s.config.Mode == ModeSoftware && rings > 0 && s.config.RingIdleTimeout > 0
		if idleCheck {
			if idle := lastRing.Add(s.config.RingIdleTimeout); idle.Before(limit) {
				limit = idle
			}
		}

		// A passed limit still drains complete lines already buffered.
		line, err := s.modem.ReadLine(ctx, max(time.Until(limit), 0))

		if line != "" {
			switch {
			case at.IsRing(line):
				rings++
				lastRing = time.Now()
				s.update(func(m *Metrics) { m.Rings++ })
				s.logger.Info("ring detected", "count", rings)

				if s.config.Mode == ModeSoftware {
					if rings >= s.config.RingsToAnswer {
						return s.answer(ctx)
					}
					continue
				}
				if rings == 1 {
					connectDeadline = lastRing.Add(s.config.ConnectTimeout)
				}
				if rings == s.config.RingsToAnswer {
					s.transition(StateHardwareAutoAnswering)
				}
				continue

			default:
				result := at.Classify(line)
				switch {
				case result == at.ResultConnect:
					return s.connected(line), nil
				case result.Terminal() && !result.Success():
					s.logger.Warn("call failed", "response", line)
					return CallOutcome{Result: result}, &modem.ResultError{Result: result, Line: line}
				default:
					s.logger.Debug("ignoring line while waiting for call", "line", line)
				}
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, modem.ErrTimeout) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			now := time.Now()
			switch {
			case ctx.Err() != nil:
				s.logger.Info("wait for call interrupted")
				return CallOutcome{Result: at.ResultTimeout}, fmt.Errorf("wait for call interrupted: %w", modem.ErrTimeout)
			case !connectDeadline.IsZero() && !now.Before(connectDeadline):
				s.logger.Warn("no CONNECT after ring", "rings", rings, "timeout", s.config.ConnectTimeout)
				return CallOutcome{Result: at.ResultTimeout}, fmt.Errorf("no CONNECT within %s of first ring: %w", s.config.ConnectTimeout, modem.ErrTimeout)
			case !now.Before(deadline):
				s.logger.Warn("no call", "timeout", s.config.RingWaitTimeout)
				return CallOutcome{Result: at.ResultTimeout}, fmt.Errorf("no call within %s: %w", s.config.RingWaitTimeout, modem.ErrTimeout)
			case idleCheck:
				s.logger.Info("ringing stopped", "rings", rings)
				rings = 0
			}
		default:
			return CallOutcome{Result: at.ResultNone}, fmt.Errorf("read while waiting for call: %w", err)
		}
	}
}

// answer issues the answer command and waits for CONNECT.
func (s *Session) answer(ctx context.Context) (CallOutcome, error) {
	s.transition(StateSoftwareAnswering)
	s.logger.Info("answering call", "command", s.config.AnswerCommand)

	ctx, cancel := context.WithTimeout(ctx, s.config.AnswerTimeout)
	defer cancel()

	resp, err := s.modem.Exec(ctx, s.config.AnswerCommand)
	if err != nil {
		s.logger.Warn("answer failed", "result", resp.Result, "error", err)
		return CallOutcome{Result: resp.Result}, err
	}
	if resp.Result != at.ResultConnect {
		return CallOutcome{Result: resp.Result}, fmt.Errorf("%w: answer returned %s", modem.ErrGeneral, resp.Result)
	}
	return s.connected(resp.Final()), nil
}

// connected records a CONNECT line and moves to the connected state.
func (s *Session) connected(line string) CallOutcome {
	outcome := CallOutcome{Result: at.ResultConnect}
	speed, err := at.ParseConnectSpeed(line)
	switch {
	case err != nil:
		s.logger.Warn("connect speed unknown, keeping configured speed", "line", line, "baud", s.config.BaudRate)
	case !at.SpeedInRange(speed):
		s.logger.Warn("connect speed out of range", "speed", speed)
		outcome.Speed = speed
	default:
		outcome.Speed = speed
	}

	s.update(func(m *Metrics) {
		m.Speed = outcome.Speed
		m.Connected = time.Now()
	})
	s.logger.Info("call connected", "response", line, "speed", outcome.Speed)
	s.transition(StateConnected)
	return outcome
}

// AdjustSpeed switches the port to the negotiated speed when it lies
// within 300 to 115200 baud and differs from the configured one. With carrier detection
// enabled the line then requires carrier.
func (s *Session) AdjustSpeed(outcome CallOutcome) error {
	if outcome.Speed > 0 && at.SpeedInRange(outcome.Speed) && outcome.Speed != s.config.BaudRate {
		s.logger.Info("adjusting line speed", "from", s.config.BaudRate, "to", outcome.Speed)
		if err := s.modem.SetSpeed(outcome.Speed); err != nil {
			return fmt.Errorf("adjust speed: %w", err)
		}
	}
	if s.config.CarrierDetect {
		if err := s.modem.EnableCarrierSensing(); err != nil {
			return fmt.Errorf("enable carrier detect: %w", err)
		}
	}
	return nil
}
