package at_test

import (
	"errors"
	"testing"

	"i4.energy/across/answerd/at"
)

func TestParseConnectSpeed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		speed   int
		wantErr bool
	}{
		{name: "plain", input: "CONNECT 1200", speed: 1200},
		{name: "protocol suffix", input: "CONNECT 9600/ARQ", speed: 9600},
		{name: "V42 suffix", input: "CONNECT 9600/V42", speed: 9600},
		{name: "trailing blanks before suffix", input: "CONNECT 2400  /REL", speed: 2400},
		{name: "multi-line transcript", input: "ATA\nCONNECT 4800\n", speed: 4800},
		{name: "CR terminated", input: "CONNECT 19200\r\nOK", speed: 19200},
		{name: "non standard rate", input: "CONNECT 33600/LAPM", speed: 33600},
		{name: "rate after modulation name", input: "CONNECT V32 9600", speed: 9600},
		{name: "high rate not read as lower", input: "CONNECT FAST 115200", speed: 115200},
		{name: "bare connect", input: "CONNECT", wantErr: true},
		{name: "connect then next line", input: "CONNECT\nOK", wantErr: true},
		{name: "no connect", input: "NO CARRIER", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speed, err := at.ParseConnectSpeed(tt.input)
			if tt.wantErr {
				if !errors.Is(err, at.ErrUnparseableSpeed) {
					t.Fatalf("expected ErrUnparseableSpeed, got speed=%d err=%v", speed, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if speed != tt.speed {
				t.Errorf("speed = %d, want %d", speed, tt.speed)
			}
		})
	}
}

func TestSpeedInRange(t *testing.T) {
	for speed, want := range map[int]bool{300: true, 4800: true, 115200: true, 110: false, 230400: false} {
		if got := at.SpeedInRange(speed); got != want {
			t.Errorf("SpeedInRange(%d) = %v, want %v", speed, got, want)
		}
	}
}
