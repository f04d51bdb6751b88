package at

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnparseableSpeed is returned when a CONNECT response carries no usable
// bit rate. It is informational: the session keeps the configured speed.
var ErrUnparseableSpeed = errors.New("unparseable connect speed")

// StandardRates are the canonical bit rates recognized in a CONNECT line when
// no leading number can be parsed.
var StandardRates = []int{300, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}

const (
	MinSpeed = 300
	MaxSpeed = 115200
)

// ParseConnectSpeed extracts the bit rate reported after CONNECT in text,
// which may span several response lines. The protocol suffix after '/' is
// discarded:
//
//	"CONNECT 9600/ARQ" -> 9600
//	"CONNECT 1200"     -> 1200
//	"CONNECT"          -> ErrUnparseableSpeed
func ParseConnectSpeed(text string) (int, error) {
	i := strings.Index(text, Connect)
	if i < 0 {
		return 0, ErrUnparseableSpeed
	}
	rest := strings.TrimLeft(text[i+len(Connect):], " \t")
	if j := strings.IndexAny(rest, "\r\n"); j >= 0 {
		rest = rest[:j]
	}
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	rest = strings.TrimRight(rest, " \t")

	if speed, ok := leadingNumber(rest); ok {
		return speed, nil
	}

	// Some modems report e.g. "CONNECT V32 9600"; look for a known rate.
	// Highest first so "115200" is not read as "1200".
	for k := len(StandardRates) - 1; k >= 0; k-- {
		if strings.Contains(rest, strconv.Itoa(StandardRates[k])) {
			return StandardRates[k], nil
		}
	}
	return 0, ErrUnparseableSpeed
}

// SpeedInRange reports whether speed lies within the rates a Hayes modem can
// negotiate. Values outside are accepted but worth flagging.
func SpeedInRange(speed int) bool {
	return speed >= MinSpeed && speed <= MaxSpeed
}

func leadingNumber(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
