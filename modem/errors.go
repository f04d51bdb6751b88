package modem

import (
	"errors"
	"fmt"
	"syscall"

	"i4.energy/across/answerd/at"
)

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Modem
	// that has no transport.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when an operation is attempted on a Modem
	// that has been closed. Close itself never returns it.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrPort covers failures to lock, open or configure the serial device.
	// It is fatal and happens before any modem I/O.
	ErrPort = errors.New("serial port error")

	// ErrPortBusy is returned when a live process holds the lock file of the
	// device.
	ErrPortBusy = fmt.Errorf("%w: port locked by another process", ErrPort)

	// ErrTimeout is returned when no terminal response arrives before the
	// deadline.
	ErrTimeout = errors.New("timeout")

	// ErrModem is matched by every explicit failure response of the modem
	// (ERROR, NO CARRIER, BUSY, NO DIALTONE, NO ANSWER). See ResultError.
	ErrModem = errors.New("modem error")

	// ErrHangup is returned when the carrier is lost or the line hung up
	// during an operation. It is never retried within the same phase.
	ErrHangup = errors.New("hangup")

	// ErrGeneral covers malformed input, exhausted retries and I/O failures
	// that fit no other class.
	ErrGeneral = errors.New("general error")

	// ErrInvalidConfig is returned by Build for settings that cannot work,
	// such as a zero AT timeout.
	ErrInvalidConfig = errors.New("invalid modem configuration")
)

// ResultError carries a failure response of the modem. It matches ErrModem
// with errors.Is.
type ResultError struct {
	Command string
	Result  at.Result
	Line    string
}

func (e *ResultError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("modem reported %q", e.Line)
	}
	return fmt.Sprintf("%s: modem replied %q", e.Command, e.Line)
}

// Is reports ErrModem as the class of e.
func (e *ResultError) Is(target error) bool {
	return target == ErrModem
}

// ErrorKind is the failure class of an error, used to decide recovery.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindPort
	KindTimeout
	KindModem
	KindHangup
	KindGeneral
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPort:
		return "port"
	case KindTimeout:
		return "timeout"
	case KindModem:
		return "modem"
	case KindHangup:
		return "hangup"
	case KindGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// Classify maps err to its failure class. Unknown errors are general.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrHangup):
		return KindHangup
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrModem):
		return KindModem
	case errors.Is(err, ErrPort):
		return KindPort
	default:
		return KindGeneral
	}
}

// isTransient reports whether a write may be retried as is.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EWOULDBLOCK) ||
		errors.Is(err, syscall.EINTR)
}

// isLineDrop reports whether err means the peer side of the line went away.
func isLineDrop(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
