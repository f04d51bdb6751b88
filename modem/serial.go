package modem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"syscall"
	"time"

	"go.bug.st/serial"
)

// SerialDialer opens a modem on a local serial device using go.bug.st/serial.
type SerialDialer struct {
	// PortName is the device path, e.g. /dev/ttyS0.
	PortName string
	// BaudRate is the initial line speed. Ignored when Mode is set.
	BaudRate int
	// Mode overrides the default 8N1 mode at BaudRate.
	Mode *serial.Mode
	// LockDir holds the UUCP style lock file. Defaults to DefaultLockDir.
	LockDir string
	// DTRDropTime is how long DTR stays low on DropDTR. Defaults to 1s.
	DTRDropTime time.Duration
	// SpeedSettle is the pause after a speed change. Defaults to 100ms.
	SpeedSettle time.Duration
	Logger      *slog.Logger
}

// openPort is replaced in tests.
var openPort = serial.Open

// Dial locks the device, snapshots its line settings and opens it in raw
// mode with carrier ignored.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("modem: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("modem: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mode := d.Mode
	if mode == nil {
		baud := d.BaudRate
		if baud == 0 {
			baud = 9600
		}
		mode = &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
	}

	lock, err := acquireLock(d.LockDir, d.PortName, logger)
	if err != nil {
		return nil, err
	}
	ctl, err := openLineControl(d.PortName)
	if err != nil {
		lock.release()
		return nil, fmt.Errorf("%w: %s: %v", ErrPort, d.PortName, err)
	}
	port, err := openPort(d.PortName, mode)
	if err != nil {
		ctl.Close()
		lock.release()
		return nil, fmt.Errorf("%w: open %s: %v", ErrPort, d.PortName, err)
	}

	logger.Info("serial port opened", "port", d.PortName, "baud", mode.BaudRate)
	return newSerialPort(port, ctl, lock, *mode, d.DTRDropTime, d.SpeedSettle, logger), nil
}

// SerialPort is a Transport over a local serial device.
type SerialPort struct {
	port   serial.Port
	ctl    lineControl
	lock   *portLock
	mode   serial.Mode
	logger *slog.Logger

	dtrDrop     time.Duration
	speedSettle time.Duration
	sensing     bool
	closed      bool
}

func newSerialPort(port serial.Port, ctl lineControl, lock *portLock, mode serial.Mode, dtrDrop, speedSettle time.Duration, logger *slog.Logger) *SerialPort {
	if dtrDrop == 0 {
		dtrDrop = time.Second
	}
	if speedSettle == 0 {
		speedSettle = 100 * time.Millisecond
	}
	return &SerialPort{
		port:        port,
		ctl:         ctl,
		lock:        lock,
		mode:        mode,
		logger:      logger,
		dtrDrop:     dtrDrop,
		speedSettle: speedSettle,
	}
}

func (s *SerialPort) Read(p []byte) (int, error) {
	n, err := s.port.Read(p)
	return n, s.mapErr(err)
}

// Write writes p and waits until it has been transmitted.
func (s *SerialPort) Write(p []byte) (int, error) {
	n, err := s.port.Write(p)
	if err != nil {
		return n, s.mapErr(err)
	}
	if err := s.port.Drain(); err != nil {
		return n, s.mapErr(err)
	}
	return n, nil
}

func (s *SerialPort) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if isLineDrop(err) {
		return fmt.Errorf("%w: %v", ErrHangup, err)
	}
	if s.sensing && !s.closed {
		var perr *serial.PortError
		if errors.Is(err, syscall.EIO) || (errors.As(err, &perr) && perr.Code() == serial.PortClosed) {
			return fmt.Errorf("%w: %v", ErrHangup, err)
		}
	}
	return err
}

func (s *SerialPort) SetReadTimeout(t time.Duration) error {
	return s.port.SetReadTimeout(t)
}

func (s *SerialPort) FlushInput() error {
	return s.port.ResetInputBuffer()
}

func (s *SerialPort) FlushOutput() error {
	return s.port.ResetOutputBuffer()
}

func (s *SerialPort) CarrierDetect() (bool, error) {
	bits, err := s.port.GetModemStatusBits()
	if err != nil {
		return false, s.mapErr(err)
	}
	return bits.DCD, nil
}

func (s *SerialPort) SetSpeed(baud int) error {
	if err := errors.Join(s.port.ResetInputBuffer(), s.port.ResetOutputBuffer()); err != nil {
		return err
	}
	mode := s.mode
	mode.BaudRate = baud
	if err := s.port.SetMode(&mode); err != nil {
		return err
	}
	s.mode = mode
	s.logger.Info("line speed changed", "baud", baud)
	time.Sleep(s.speedSettle)
	return nil
}

func (s *SerialPort) EnableCarrierSensing() error {
	if err := s.ctl.SetLocal(false); err != nil && !errors.Is(err, errLineControlUnsupported) {
		return fmt.Errorf("enable carrier sensing: %w", err)
	}
	if err := s.port.SetDTR(true); err != nil {
		return err
	}
	if err := s.port.SetRTS(true); err != nil {
		return err
	}
	s.sensing = true
	return nil
}

func (s *SerialPort) DisableCarrierSensing() error {
	s.sensing = false
	if err := s.ctl.SetLocal(true); err != nil && !errors.Is(err, errLineControlUnsupported) {
		return fmt.Errorf("disable carrier sensing: %w", err)
	}
	return nil
}

// DropDTR sets the line speed to zero for DTRDropTime, which drops DTR, then
// restores it. Without termios access DTR is cleared directly.
func (s *SerialPort) DropDTR() error {
	err := s.ctl.DropDTR(s.dtrDrop)
	if !errors.Is(err, errLineControlUnsupported) {
		return err
	}
	if err := s.port.SetDTR(false); err != nil {
		return err
	}
	time.Sleep(s.dtrDrop)
	return s.port.SetDTR(true)
}

// Close flushes the line, restores the settings found at open time, closes
// the device and removes the lock file. It is idempotent.
func (s *SerialPort) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := errors.Join(
		s.port.ResetInputBuffer(),
		s.port.ResetOutputBuffer(),
		s.ctl.Restore(),
		s.port.Close(),
		s.ctl.Close(),
	)
	s.lock.release()
	return err
}

var _ Transport = (*SerialPort)(nil)
