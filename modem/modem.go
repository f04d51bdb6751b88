// Package modem drives a Hayes compatible modem over a serial line: it opens
// and locks the device, exchanges AT commands and transmits payload bytes.
package modem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"i4.energy/across/answerd/at"
)

// Modem is an open, locked line to a Hayes compatible modem. It is not safe
// for concurrent use; a single session goroutine owns it.
type Modem struct {
	// transport provides the physical connection to the modem
	transport Transport
	// reader assembles response lines from the transport
	reader *LineReader
	// config contains the modem configuration settings
	config Config
	logger *slog.Logger
	// closed indicates if the modem has been shut down
	closed bool
}

// Response is the outcome of one command exchange.
type Response struct {
	// Command is the command as written, without the trailing CR.
	Command string
	// Result is the terminal result, ResultTimeout if none arrived.
	Result at.Result
	// Lines holds every line received, the terminal line last.
	Lines []string
}

// Text returns the received lines joined by newlines.
func (r Response) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Final returns the last line received, usually the terminal result.
func (r Response) Final() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[len(r.Lines)-1]
}

// New creates a new Modem with the given configuration. It opens the
// transport with the configured Dialer but sends nothing to the modem.
func New(ctx context.Context, config Config) (*Modem, error) {
	if config.Dialer == nil {
		return nil, ErrNoDialer
	}
	config.setDefaults()

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	return &Modem{
		transport: transport,
		reader:    NewLineReader(transport, config.BufferSize, config.ReadSlice),
		config:    config,
		logger:    config.Logger,
	}, nil
}

// Close releases the line. Calling it more than once is a no-op.
func (m *Modem) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.transport != nil {
		return m.transport.Close()
	}
	return nil
}

// Closed reports whether Close has been called.
func (m *Modem) Closed() bool {
	return m.closed
}

func (m *Modem) ready() error {
	if m.closed {
		return ErrAlreadyClosed
	}
	if m.transport == nil {
		return ErrNotInitialized
	}
	return nil
}

// Exec sends one AT command and waits for its terminal response. The
// exchange is bounded by the deadline of ctx, or by the configured AT
// timeout when ctx has none.
//
// Pending input is discarded before the command is written. A success
// response (OK, CONNECT) returns a nil error, a failure response a
// *ResultError and a missing response ErrTimeout with Result set to
// ResultTimeout.
func (m *Modem) Exec(ctx context.Context, cmd string) (Response, error) {
	cmd = strings.TrimSpace(cmd)
	resp := Response{Command: cmd, Result: at.ResultNone}
	if err := m.ready(); err != nil {
		return resp, err
	}
	if cmd == "" {
		return resp, fmt.Errorf("%w: empty command", ErrGeneral)
	}

	// Apply per-command timeout if context has none
	if _, ok := ctx.Deadline(); !ok && m.config.ATTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.ATTimeout)
		defer cancel()
	}
	deadline, _ := ctx.Deadline()

	if err := m.flushInput(); err != nil {
		return resp, fmt.Errorf("flush before %q: %w", cmd, err)
	}
	if _, err := m.transport.Write([]byte(cmd + at.CR)); err != nil {
		return resp, fmt.Errorf("write command %q: %w", cmd, err)
	}
	m.logger.Debug("sent command", "cmd", cmd)

	if err := sleepCtx(ctx, m.config.ResponseSettle); err != nil {
		return m.timedOut(resp, err)
	}

	for {
		line, err := m.reader.ReadLine(ctx, m.config.LineSize, time.Until(deadline))
		if line != "" {
			m.logger.Debug("received", "cmd", cmd, "line", line)
			resp.Lines = append(resp.Lines, line)
			if result := at.Classify(line); result.Terminal() {
				resp.Result = result
				if result.Success() {
					return resp, nil
				}
				return resp, &ResultError{Command: cmd, Result: result, Line: line}
			}
		}
		if err != nil {
			if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				return m.timedOut(resp, err)
			}
			return resp, fmt.Errorf("read response to %q: %w", cmd, err)
		}
	}
}

func (m *Modem) timedOut(resp Response, err error) (Response, error) {
	if errors.Is(err, context.Canceled) {
		return resp, err
	}
	resp.Result = at.ResultTimeout
	m.logger.Debug("no response", "cmd", resp.Command, "lines", len(resp.Lines))
	return resp, fmt.Errorf("%s: %w", resp.Command, ErrTimeout)
}

// ExecSequence runs a ";" separated command string one command at a time,
// each bounded by timeout, pausing between commands. It stops at the first
// command that does not succeed and returns its response. An empty string
// succeeds without I/O.
func (m *Modem) ExecSequence(ctx context.Context, cmds string, timeout time.Duration) (Response, error) {
	resp := Response{Result: at.ResultOK}
	for _, cmd := range at.SplitCommands(cmds) {
		var err error
		resp, err = m.execWithTimeout(ctx, cmd, timeout)
		if err != nil {
			return resp, err
		}
		if err := sleepCtx(ctx, m.config.CommandPause); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func (m *Modem) execWithTimeout(ctx context.Context, cmd string, timeout time.Duration) (Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return m.Exec(ctx, cmd)
}

// ReadLine waits up to timeout for the next line from the modem. On timeout
// the partial bytes received are returned together with ErrTimeout. Lines
// are cut to LineSize, except an unterminated burst that fills the whole
// buffer, which is returned as it is (see LineReader.ReadLine).
func (m *Modem) ReadLine(ctx context.Context, timeout time.Duration) (string, error) {
	if err := m.ready(); err != nil {
		return "", err
	}
	line, err := m.reader.ReadLine(ctx, m.config.LineSize, timeout)
	if line != "" {
		m.logger.Debug("received", "line", line)
	}
	return line, err
}

// Carrier reports whether the modem asserts carrier detect.
func (m *Modem) Carrier() (bool, error) {
	if err := m.ready(); err != nil {
		return false, err
	}
	return m.transport.CarrierDetect()
}

// SetSpeed changes the line speed. Buffered input is discarded.
func (m *Modem) SetSpeed(baud int) error {
	if err := m.ready(); err != nil {
		return err
	}
	m.reader.Reset()
	if err := m.transport.SetSpeed(baud); err != nil {
		return fmt.Errorf("set speed %d: %w", baud, err)
	}
	return nil
}

// EnableCarrierSensing makes the line require carrier from now on.
func (m *Modem) EnableCarrierSensing() error {
	if err := m.ready(); err != nil {
		return err
	}
	return m.transport.EnableCarrierSensing()
}

// DisableCarrierSensing makes the line ignore carrier.
func (m *Modem) DisableCarrierSensing() error {
	if err := m.ready(); err != nil {
		return err
	}
	return m.transport.DisableCarrierSensing()
}

// DropDTR pulses DTR low to force the modem on hook.
func (m *Modem) DropDTR() error {
	if err := m.ready(); err != nil {
		return err
	}
	return m.transport.DropDTR()
}

// Flush discards pending input and output.
func (m *Modem) Flush() error {
	if err := m.ready(); err != nil {
		return err
	}
	return errors.Join(m.flushInput(), m.transport.FlushOutput())
}

// WakeUp sends a bare CR, which ends any partial command in the modem.
func (m *Modem) WakeUp() error {
	if err := m.ready(); err != nil {
		return err
	}
	_, err := m.transport.Write([]byte(at.CR))
	return err
}

func (m *Modem) flushInput() error {
	m.reader.Reset()
	return m.transport.FlushInput()
}

// sleepCtx pauses for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
