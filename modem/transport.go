package modem

import (
	"context"
	"io"
	"time"
)

//go:generate go tool mockgen -destination mock_transport.go -package modem . Transport,Dialer
//go:generate go tool mockgen -destination mock_serial.go -package modem -mock_names Port=MockSerialPort go.bug.st/serial Port

// Transport is an open serial line to a Hayes modem.
//
// Write performs a single blocking write and returns once the bytes have left
// the transmitter. Read honors the timeout set with SetReadTimeout and
// returns (0, nil) when it expires without data. Close is idempotent.
//
// Typical implementations are SerialPort and, in tests, TestTransport or a
// generated mock.
type Transport interface {
	io.ReadWriteCloser

	SetReadTimeout(t time.Duration) error
	FlushInput() error
	FlushOutput() error

	// CarrierDetect reports the state of the DCD line.
	CarrierDetect() (bool, error)

	// SetSpeed flushes pending I/O and changes input and output speed.
	SetSpeed(baud int) error

	// EnableCarrierSensing makes the line require carrier. It is used only
	// once a call is connected.
	EnableCarrierSensing() error
	// DisableCarrierSensing makes the line ignore carrier again.
	DisableCarrierSensing() error

	// DropDTR drops DTR for a moment to make the modem hang up.
	DropDTR() error
}

// Dialer opens a Transport to a modem.
//
// Dialer abstracts how the line is obtained (serial device, test double) and
// is used during modem construction only.
type Dialer interface {
	// Dial creates and returns a ready Transport. It should respect
	// cancellation of the context.
	Dial(ctx context.Context) (Transport, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Transport, error)

// Dial calls f(ctx).
func (f DialerFunc) Dial(ctx context.Context) (Transport, error) {
	return f(ctx)
}
