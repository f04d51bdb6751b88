package modem

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"i4.energy/across/answerd/at"
)

// TestTransport is a test helper that behaves like a modem on a serial line.
// Reads block until data is queued or the read timeout expires, like a real
// port. Every CR terminated command written is answered from a script; an
// unscripted command gets OK. While carrier sensing is enabled the line is in
// data mode and writes are recorded without being answered.
type TestTransport struct {
	mu          sync.Mutex
	incoming    []byte
	notify      chan struct{}
	readTimeout time.Duration
	closed      bool

	pending  strings.Builder
	replies  map[string][]string
	commands []string
	written  []byte

	carrier  bool
	sensing  bool
	speed    int
	dtrDrops int

	// WriteFunc, when set, replaces the default write behavior. It runs
	// without the lock held.
	WriteFunc func(p []byte) (int, error)
	// CarrierErr is returned by CarrierDetect when set.
	CarrierErr error
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		notify:      make(chan struct{}, 1),
		replies:     make(map[string][]string),
		readTimeout: time.Second,
	}
}

// Dialer returns a Dialer handing out t.
func (t *TestTransport) Dialer() Dialer {
	return DialerFunc(func(context.Context) (Transport, error) {
		return t, nil
	})
}

// Respond scripts the replies to cmd. Each later write of cmd consumes the
// next reply; the last one repeats.
func (t *TestTransport) Respond(cmd string, replies ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[cmd] = append(t.replies[cmd], replies...)
}

// SendData queues data to be read by the transport.
// This simulates receiving data from the modem.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue(data)
}

// SendDataAfter queues data once d has passed.
func (t *TestTransport) SendDataAfter(d time.Duration, data string) {
	time.AfterFunc(d, func() { t.SendData(data) })
}

func (t *TestTransport) queue(data string) {
	if t.closed {
		return
	}
	t.incoming = append(t.incoming, data...)
	select {
	case t.notify <- struct{}{}:
	default:
	}
}

func (t *TestTransport) Read(p []byte) (int, error) {
	t.mu.Lock()
	timeout := t.readTimeout
	t.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return 0, io.EOF
		}
		if len(t.incoming) > 0 {
			n := copy(p, t.incoming)
			t.incoming = t.incoming[n:]
			t.mu.Unlock()
			return n, nil
		}
		t.mu.Unlock()

		select {
		case <-t.notify:
		case <-timer.C:
			return 0, nil
		}
	}
}

func (t *TestTransport) Write(p []byte) (int, error) {
	if t.WriteFunc != nil {
		n, err := t.WriteFunc(p)
		t.mu.Lock()
		t.written = append(t.written, p[:n]...)
		t.mu.Unlock()
		return n, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	t.written = append(t.written, p...)
	if t.sensing {
		return len(p), nil
	}
	t.pending.Write(p)
	for {
		buffered := t.pending.String()
		i := strings.IndexByte(buffered, '\r')
		if i < 0 {
			break
		}
		t.pending.Reset()
		t.pending.WriteString(buffered[i+1:])
		if cmd := strings.TrimSpace(buffered[:i]); cmd != "" {
			t.commands = append(t.commands, cmd)
			t.queue(t.reply(cmd))
		}
	}
	return len(p), nil
}

func (t *TestTransport) reply(cmd string) string {
	replies, ok := t.replies[cmd]
	if !ok || len(replies) == 0 {
		return at.CRLF + at.OK + at.CRLF
	}
	if len(replies) > 1 {
		t.replies[cmd] = replies[1:]
	}
	return replies[0]
}

func (t *TestTransport) SetReadTimeout(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readTimeout = d
	return nil
}

func (t *TestTransport) FlushInput() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.incoming = nil
	return nil
}

func (t *TestTransport) FlushOutput() error { return nil }

// SetCarrier sets the state reported by CarrierDetect.
func (t *TestTransport) SetCarrier(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.carrier = on
}

func (t *TestTransport) CarrierDetect() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.CarrierErr != nil {
		return false, t.CarrierErr
	}
	return t.carrier, nil
}

func (t *TestTransport) SetSpeed(baud int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.incoming = nil
	t.speed = baud
	return nil
}

func (t *TestTransport) EnableCarrierSensing() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sensing = true
	return nil
}

func (t *TestTransport) DisableCarrierSensing() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sensing = false
	return nil
}

// DropDTR hangs up the simulated line.
func (t *TestTransport) DropDTR() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dtrDrops++
	t.carrier = false
	return nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	select {
	case t.notify <- struct{}{}:
	default:
	}
	return nil
}

// Commands returns the commands written so far, without CR.
func (t *TestTransport) Commands() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.commands...)
}

// Written returns every byte written so far.
func (t *TestTransport) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.written...)
}

// Speed returns the last speed set, 0 if none.
func (t *TestTransport) Speed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speed
}

// CarrierSensing reports whether carrier sensing is enabled.
func (t *TestTransport) CarrierSensing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sensing
}

// DTRDrops returns how often DropDTR was called.
func (t *TestTransport) DTRDrops() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dtrDrops
}

// Closed reports whether Close was called.
func (t *TestTransport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

var _ Transport = (*TestTransport)(nil)
