package modem_test

import (
	"bytes"
	"context"
	"errors"
	"syscall"
	"testing"

	"go.uber.org/mock/gomock"
	"i4.energy/across/answerd/modem"
)

func newMockModem(t *testing.T, ctrl *gomock.Controller) (*modem.Modem, *modem.MockTransport) {
	t.Helper()
	mockTransport := modem.NewMockTransport(ctrl)
	mockDialer := modem.NewMockDialer(ctrl)
	mockDialer.EXPECT().Dial(gomock.Any()).Return(mockTransport, nil)

	m, err := modem.New(context.Background(), testConfig(mockDialer))
	if err != nil {
		t.Fatalf("unexpected error from New(): %v", err)
	}
	return m, mockTransport
}

func TestRobustWrite(t *testing.T) {
	payload := []byte("\r\nHELLO CALLER\r\n")

	t.Run("No carrier means no write attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m, mockTransport := newMockModem(t, ctrl)
		mockTransport.EXPECT().CarrierDetect().Return(false, nil)
		mockTransport.EXPECT().Write(gomock.Any()).Times(0)

		n, err := m.RobustWrite(payload)
		if !errors.Is(err, modem.ErrHangup) {
			t.Errorf("expected ErrHangup, got: %v", err)
		}
		if n != 0 {
			t.Errorf("n = %d, want 0", n)
		}
	})

	t.Run("Short write continues with the remainder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m, mockTransport := newMockModem(t, ctrl)
		half := len(payload) / 2
		gomock.InOrder(
			mockTransport.EXPECT().CarrierDetect().Return(true, nil),
			mockTransport.EXPECT().Write(payload).Return(half, nil),
			mockTransport.EXPECT().Write(payload[half:]).Return(len(payload)-half, nil),
		)

		n, err := m.RobustWrite(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != len(payload) {
			t.Errorf("n = %d, want %d", n, len(payload))
		}
	})

	t.Run("Zero retries fail on the first stall", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTransport := modem.NewMockTransport(ctrl)
		mockDialer := modem.NewMockDialer(ctrl)
		mockDialer.EXPECT().Dial(gomock.Any()).Return(mockTransport, nil)
		config, err := modem.NewConfigBuilder().
			WithDialer(mockDialer).
			WithWriteRetry(0, 0).
			Build()
		if err != nil {
			t.Fatalf("unexpected error from Build(): %v", err)
		}
		m, err := modem.New(context.Background(), config)
		if err != nil {
			t.Fatalf("unexpected error from New(): %v", err)
		}

		gomock.InOrder(
			mockTransport.EXPECT().CarrierDetect().Return(true, nil),
			mockTransport.EXPECT().Write(payload).Return(0, syscall.EAGAIN).Times(1),
		)

		n, err := m.RobustWrite(payload)
		if !errors.Is(err, modem.ErrGeneral) {
			t.Errorf("expected ErrGeneral, got: %v", err)
		}
		if n != 0 {
			t.Errorf("n = %d, want 0", n)
		}
	})

	t.Run("Transient error is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m, mockTransport := newMockModem(t, ctrl)
		gomock.InOrder(
			mockTransport.EXPECT().CarrierDetect().Return(true, nil),
			mockTransport.EXPECT().Write(payload).Return(0, syscall.EAGAIN),
			mockTransport.EXPECT().Write(payload).Return(0, syscall.EINTR),
			mockTransport.EXPECT().Write(payload).Return(len(payload), nil),
		)

		if n, err := m.RobustWrite(payload); err != nil || n != len(payload) {
			t.Errorf("RobustWrite() = %d, %v", n, err)
		}
	})

	t.Run("Retries are bounded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m, mockTransport := newMockModem(t, ctrl)
		mockTransport.EXPECT().CarrierDetect().Return(true, nil)
		mockTransport.EXPECT().Write(gomock.Any()).Return(0, syscall.EAGAIN).Times(4)

		n, err := m.RobustWrite(payload)
		if !errors.Is(err, modem.ErrGeneral) {
			t.Errorf("expected ErrGeneral, got: %v", err)
		}
		if n != 0 {
			t.Errorf("n = %d, want 0", n)
		}
	})

	t.Run("Progress resets the retry counter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m, mockTransport := newMockModem(t, ctrl)
		calls := []any{mockTransport.EXPECT().CarrierDetect().Return(true, nil)}
		for i := range 4 {
			calls = append(calls,
				mockTransport.EXPECT().Write(payload[i*2:]).Return(0, syscall.EAGAIN).Times(3),
				mockTransport.EXPECT().Write(payload[i*2:]).Return(2, nil),
			)
		}
		calls = append(calls, mockTransport.EXPECT().Write(payload[8:]).Return(len(payload)-8, nil))
		gomock.InOrder(calls...)

		if n, err := m.RobustWrite(payload); err != nil || n != len(payload) {
			t.Errorf("RobustWrite() = %d, %v", n, err)
		}
	})

	t.Run("Hangup aborts with partial count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m, mockTransport := newMockModem(t, ctrl)
		gomock.InOrder(
			mockTransport.EXPECT().CarrierDetect().Return(true, nil),
			mockTransport.EXPECT().Write(payload).Return(4, syscall.EPIPE),
		)

		n, err := m.RobustWrite(payload)
		if !errors.Is(err, modem.ErrHangup) {
			t.Errorf("expected ErrHangup, got: %v", err)
		}
		if n != 4 {
			t.Errorf("n = %d, want 4", n)
		}
	})

	t.Run("Other errors are fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m, mockTransport := newMockModem(t, ctrl)
		ioErr := errors.New("bad file descriptor")
		gomock.InOrder(
			mockTransport.EXPECT().CarrierDetect().Return(true, nil),
			mockTransport.EXPECT().Write(payload).Return(0, ioErr),
		)

		if _, err := m.RobustWrite(payload); !errors.Is(err, ioErr) {
			t.Errorf("expected write error, got: %v", err)
		}
	})
}

func TestChunkedSend(t *testing.T) {
	m, tt := newTestModem(t)
	tt.SetCarrier(true)

	var writes int
	tt.WriteFunc = func(p []byte) (int, error) {
		writes++
		if len(p) > 256 {
			t.Errorf("chunk of %d bytes exceeds 256", len(p))
		}
		return len(p), nil
	}

	payload := bytes.Repeat([]byte("0123456789"), 60)
	n, err := m.ChunkedSend(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(payload) {
		t.Errorf("n = %d, want %d", n, len(payload))
	}
	if writes != 3 {
		t.Errorf("writes = %d, want 3", writes)
	}
	if !bytes.Equal(tt.Written(), payload) {
		t.Error("written bytes differ from payload")
	}
}

func TestChunkedSendStopsOnCarrierLoss(t *testing.T) {
	m, tt := newTestModem(t)
	tt.SetCarrier(true)

	tt.WriteFunc = func(p []byte) (int, error) {
		tt.SetCarrier(false)
		return len(p), nil
	}

	payload := bytes.Repeat([]byte("x"), 600)
	n, err := m.ChunkedSend(payload)
	if !errors.Is(err, modem.ErrHangup) {
		t.Errorf("expected ErrHangup, got: %v", err)
	}
	if n != 256 {
		t.Errorf("n = %d, want 256", n)
	}
}
