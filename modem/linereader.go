package modem

import (
	"context"
	"fmt"
	"time"

	"i4.energy/across/answerd/at"
)

// TimeoutReader is a reader whose reads give up after a settable timeout,
// returning (0, nil).
type TimeoutReader interface {
	Read(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
}

// LineReader assembles modem responses into lines. Bytes past a delivered
// line stay buffered for the next call, so arbitrary chunking of the input
// yields the same lines.
type LineReader struct {
	r     TimeoutReader
	buf   []byte
	n     int
	slice time.Duration
}

// NewLineReader returns a LineReader with a buffer of the given capacity.
// Each underlying read waits at most slice.
func NewLineReader(r TimeoutReader, capacity int, slice time.Duration) *LineReader {
	if capacity <= 0 {
		capacity = 2048
	}
	if slice <= 0 {
		slice = time.Second
	}
	return &LineReader{
		r:     r,
		buf:   make([]byte, capacity),
		slice: slice,
	}
}

// ReadLine returns the next line without its terminators, cut to maxLen
// bytes when maxLen is positive.
//
// When timeout expires the bytes received so far are returned together with
// ErrTimeout. A zero timeout only returns what is already buffered. A
// transport error is returned together with any buffered fragment.
// Cancellation of ctx returns ctx.Err() and keeps the buffered bytes.
//
// When the buffer fills up without a terminator its whole content is
// returned as one line. That line is not cut to maxLen, so it can be as long
// as the buffer capacity.
func (lr *LineReader) ReadLine(ctx context.Context, maxLen int, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		advance, token, _ := at.Splitter(lr.buf[:lr.n], false)
		if token != nil {
			line := string(token)
			lr.consume(advance)
			return truncate(line, maxLen), nil
		}
		lr.consume(advance)
		if lr.n == len(lr.buf) {
			line := string(lr.buf[:lr.n])
			lr.n = 0
			return line, nil
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return truncate(lr.flushFragment(), maxLen), ErrTimeout
		}

		if err := lr.r.SetReadTimeout(min(remaining, lr.slice)); err != nil {
			return "", fmt.Errorf("set read timeout: %w", err)
		}
		k, err := lr.r.Read(lr.buf[lr.n:])
		lr.n += k
		if err != nil {
			return truncate(lr.flushFragment(), maxLen), err
		}
	}
}

// Buffered returns the number of bytes waiting in the buffer.
func (lr *LineReader) Buffered() int {
	return lr.n
}

// Reset discards buffered bytes.
func (lr *LineReader) Reset() {
	lr.n = 0
}

// flushFragment takes the first line or unterminated fragment out of the
// buffer.
func (lr *LineReader) flushFragment() string {
	advance, token, _ := at.Splitter(lr.buf[:lr.n], true)
	line := string(token)
	lr.consume(advance)
	return line
}

func (lr *LineReader) consume(k int) {
	if k <= 0 {
		return
	}
	copy(lr.buf, lr.buf[k:lr.n])
	lr.n -= k
}

func truncate(s string, maxLen int) string {
	if maxLen > 0 && len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
