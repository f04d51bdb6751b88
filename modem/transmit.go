package modem

import (
	"fmt"
	"time"
)

// RobustWrite writes p completely. Carrier is checked first and nothing is
// written without it.
//
// A short write advances past the written bytes and resets the retry
// counter. Transient errors (EAGAIN, EINTR) are retried after RetryDelay up
// to MaxWriteRetry times in a row. A hangup aborts at once. It returns the
// number of bytes written, which is len(p) only on success.
func (m *Modem) RobustWrite(p []byte) (int, error) {
	if err := m.ready(); err != nil {
		return 0, err
	}
	carrier, err := m.transport.CarrierDetect()
	if err != nil {
		return 0, fmt.Errorf("check carrier: %w", err)
	}
	if !carrier {
		return 0, fmt.Errorf("%w: no carrier before write", ErrHangup)
	}

	written := 0
	retries := 0
	for written < len(p) {
		n, err := m.transport.Write(p[written:])
		if n > 0 {
			written += n
			retries = 0
		}
		switch {
		case err == nil:
			if n == 0 {
				retries++
			}
		case Classify(err) == KindHangup || isLineDrop(err):
			return written, fmt.Errorf("%w: write after %d of %d bytes: %v", ErrHangup, written, len(p), err)
		case isTransient(err):
			retries++
		default:
			return written, fmt.Errorf("write after %d of %d bytes: %w", written, len(p), err)
		}

		if written == len(p) {
			break
		}
		if retries > 0 {
			if retries > m.config.MaxWriteRetry {
				return written, fmt.Errorf("%w: write stalled after %d of %d bytes", ErrGeneral, written, len(p))
			}
			m.logger.Debug("retrying write", "written", written, "total", len(p), "retry", retries)
			time.Sleep(m.config.RetryDelay)
		}
	}

	if m.config.TransmissionLog {
		m.logger.Info("transmitted", "bytes", written)
	}
	return written, nil
}

// ChunkedSend writes p in chunks of ChunkSize bytes with ChunkDelay between
// them, each chunk through RobustWrite. It stops at the first failing chunk.
func (m *Modem) ChunkedSend(p []byte) (int, error) {
	size := m.config.ChunkSize
	if size <= 0 {
		size = len(p)
	}
	total := 0
	for start := 0; start < len(p); start += size {
		end := min(start+size, len(p))
		n, err := m.RobustWrite(p[start:end])
		total += n
		if err != nil {
			return total, err
		}
		if end < len(p) {
			time.Sleep(m.config.ChunkDelay)
		}
	}
	return total, nil
}
