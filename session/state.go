package session

import (
	"fmt"
	"strings"

	"i4.energy/across/answerd/at"
)

// State is a step of the call answering session.
type State int

const (
	StateIdle State = iota
	StateInitialized
	StateAutoAnswerArmed
	StateMonitoring
	StateSoftwareAnswering
	StateHardwareAutoAnswering
	StateConnected
	StateValidating
	StateDataPhase
	StateHangingUp
	StateRecovering
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialized:
		return "initialized"
	case StateAutoAnswerArmed:
		return "auto-answer-armed"
	case StateMonitoring:
		return "monitoring"
	case StateSoftwareAnswering:
		return "software-answering"
	case StateHardwareAutoAnswering:
		return "hardware-auto-answering"
	case StateConnected:
		return "connected"
	case StateValidating:
		return "validating"
	case StateDataPhase:
		return "data-phase"
	case StateHangingUp:
		return "hanging-up"
	case StateRecovering:
		return "recovering"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Mode selects who answers the call.
type Mode int

const (
	// ModeSoftware leaves S0=0 and answers with ATA after the ring count.
	ModeSoftware Mode = iota
	// ModeHardware lets the modem answer by itself (S0>0).
	ModeHardware
)

func (m Mode) String() string {
	if m == ModeHardware {
		return "hardware"
	}
	return "software"
}

// ParseMode accepts "hardware"/"software" as well as the numeric form 1/0.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hardware", "1":
		return ModeHardware, nil
	case "software", "0":
		return ModeSoftware, nil
	default:
		return ModeSoftware, fmt.Errorf("unknown auto-answer mode %q", s)
	}
}

// CallOutcome is the result of the monitoring and answer phase. Speed is
// set only for a connected call whose CONNECT line carried a bit rate.
type CallOutcome struct {
	Result at.Result
	Speed  int
}

// Connected reports whether a data link was established.
func (o CallOutcome) Connected() bool {
	return o.Result == at.ResultConnect
}

func (o CallOutcome) String() string {
	if o.Connected() && o.Speed > 0 {
		return fmt.Sprintf("%s %d", o.Result, o.Speed)
	}
	return o.Result.String()
}

// RecoveryOutcome is the result of Recover.
type RecoveryOutcome int

const (
	RecoverySuccess RecoveryOutcome = iota
	RecoveryExhausted
	RecoveryNotRecoverable
)

func (r RecoveryOutcome) String() string {
	switch r {
	case RecoverySuccess:
		return "success"
	case RecoveryExhausted:
		return "exhausted"
	case RecoveryNotRecoverable:
		return "not recoverable"
	default:
		return "unknown"
	}
}
