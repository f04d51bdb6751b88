package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"i4.energy/across/answerd/at"
	"i4.energy/across/answerd/modem"
)

// ValidationReport summarizes the carrier checks of Validate.
type ValidationReport struct {
	Checks         int
	CarrierPresent int
	// Ratio is CarrierPresent / Checks.
	Ratio float64
	// ErrorTokens lists the error tokens seen in line input.
	ErrorTokens []string
	// Degraded is set when Ratio is below the quality threshold or an
	// error token was seen. It is informational; the call continues.
	Degraded bool
}

// Validate polls carrier once per validation interval for the validation
// duration and scans pending input for error tokens. Only a failing
// carrier query is returned as an error. Cancellation ends the checks early.
func (s *Session) Validate(ctx context.Context) (ValidationReport, error) {
	s.transition(StateValidating)

	var report ValidationReport
	checks := max(int(s.config.ValidationDuration/s.config.ValidationInterval), 1)

	ticker := time.NewTicker(s.config.ValidationInterval)
	defer ticker.Stop()

	for i := range checks {
		present, err := s.modem.Carrier()
		if err != nil {
			return report, fmt.Errorf("carrier check: %w", err)
		}
		report.Checks++
		if present {
			report.CarrierPresent++
		}
		s.update(func(m *Metrics) { m.CarrierChecks++ })
		report.ErrorTokens = append(report.ErrorTokens, s.scanInput(ctx)...)
		s.logger.Debug("carrier check", "check", i+1, "of", checks, "carrier", present)

		if i == checks-1 {
			break
		}
		select {
		case <-ctx.Done():
			s.logger.Info("validation interrupted", "checks", report.Checks)
			return s.finishReport(report), nil
		case <-ticker.C:
		}
	}
	return s.finishReport(report), nil
}

func (s *Session) finishReport(report ValidationReport) ValidationReport {
	if report.Checks > 0 {
		report.Ratio = float64(report.CarrierPresent) / float64(report.Checks)
	}
	report.Degraded = report.Ratio < s.config.QualityThreshold || len(report.ErrorTokens) > 0
	s.logger.Info("connection validated",
		"checks", report.Checks, "carrier_ratio", report.Ratio, "degraded", report.Degraded)
	return report
}

// scanInput reads the lines already waiting and returns the error tokens
// they contain.
func (s *Session) scanInput(ctx context.Context) []string {
	var tokens []string
	for {
		line, err := s.modem.ReadLine(ctx, 10*time.Millisecond)
		if token := at.ErrorToken(line); token != "" {
			s.logger.Warn("error token on line", "token", token, "line", line)
			tokens = append(tokens, token)
		}
		if err != nil {
			if !errors.Is(err, modem.ErrTimeout) && ctx.Err() == nil {
				s.logger.Debug("input scan stopped", "error", err)
			}
			return tokens
		}
	}
}
