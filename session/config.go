package session

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds the session settings. It is copied into the Session and
// never modified afterwards.
type Config struct {
	Logger *slog.Logger
	Mode   Mode
	// BaudRate is the configured line speed. A different CONNECT speed
	// changes the port speed before data is sent.
	BaudRate int

	InitCommand        string
	AutoAnswerSoftware string
	AutoAnswerHardware string
	AnswerCommand      string
	HangupCommand      string
	ResetCommand       string
	ProbeCommand       string

	ATTimeout       time.Duration
	AnswerTimeout   time.Duration
	RingWaitTimeout time.Duration
	// RingIdleTimeout forgets counted rings in software mode when the
	// caller stops ringing before the answer ring.
	RingIdleTimeout time.Duration
	// ConnectTimeout bounds the wait from the first ring to CONNECT in
	// hardware mode.
	ConnectTimeout time.Duration
	RingsToAnswer  int

	CarrierDetect bool

	Validation         bool
	ValidationDuration time.Duration
	ValidationInterval time.Duration
	QualityThreshold   float64

	Recovery            bool
	MaxRecoveryAttempts int
	RecoveryPause       time.Duration
	WakeUpPause         time.Duration

	HangupSettle  time.Duration
	HangupTimeout time.Duration

	FirstMessage  string
	SecondMessage string
	// ClientSettle is the wait after connecting before the first message,
	// MessageGap the wait between the messages and FinalWait the wait
	// before hanging up.
	ClientSettle time.Duration
	MessageGap   time.Duration
	FinalWait    time.Duration

	TimingLog bool

	// OnTransition is called after every state change.
	OnTransition func(prev, next State)

	// complete marks a Config derived from DefaultConfig. Its zero values
	// are explicit and New leaves them alone.
	complete bool
}

// DefaultConfig returns the default settings: hardware auto-answer with
// carrier detection, validation, recovery and timing logs on. Fields set
// to zero on the returned Config stay zero, so MaxRecoveryAttempts = 0
// means no recovery attempt and RingIdleTimeout = 0 never forgets rings.
func DefaultConfig() Config {
	var c Config
	c.setDefaults()
	c.Mode = ModeHardware
	c.CarrierDetect = true
	c.Validation = true
	c.Recovery = true
	c.TimingLog = true
	c.complete = true
	return c
}

func (c *Config) validate() error {
	switch {
	case c.ATTimeout <= 0 || c.AnswerTimeout <= 0 || c.HangupTimeout <= 0:
		return fmt.Errorf("%w: command timeouts must be positive", ErrInvalidConfig)
	case c.RingWaitTimeout <= 0 || c.ConnectTimeout <= 0:
		return fmt.Errorf("%w: ring wait and connect timeouts must be positive", ErrInvalidConfig)
	case c.ValidationInterval <= 0:
		return fmt.Errorf("%w: validation interval must be positive", ErrInvalidConfig)
	case c.RingsToAnswer < 1:
		return fmt.Errorf("%w: rings to answer must be at least 1", ErrInvalidConfig)
	case c.MaxRecoveryAttempts < 0 || c.RingIdleTimeout < 0 || c.ValidationDuration < 0:
		return fmt.Errorf("%w: negative limit", ErrInvalidConfig)
	}
	return nil
}

// setDefaults fills zero fields of a Config assembled by hand. A Config
// from DefaultConfig is already complete.
func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.complete {
		return
	}
	if c.BaudRate == 0 {
		c.BaudRate = 4800
	}
	if c.InitCommand == "" {
		c.InitCommand = "ATZ; AT&F Q0 V1 X4 &C1 &D2 S7=60 S10=120 S30=5"
	}
	if c.AutoAnswerSoftware == "" {
		c.AutoAnswerSoftware = "ATE0 S0=0"
	}
	if c.AutoAnswerHardware == "" {
		c.AutoAnswerHardware = "ATE0 S0=2"
	}
	if c.AnswerCommand == "" {
		c.AnswerCommand = "ATA"
	}
	if c.HangupCommand == "" {
		c.HangupCommand = "ATH"
	}
	if c.ResetCommand == "" {
		c.ResetCommand = "ATZ"
	}
	if c.ProbeCommand == "" {
		c.ProbeCommand = "AT"
	}
	if c.ATTimeout == 0 {
		c.ATTimeout = 5 * time.Second
	}
	if c.AnswerTimeout == 0 {
		c.AnswerTimeout = 60 * time.Second
	}
	if c.RingWaitTimeout == 0 {
		c.RingWaitTimeout = 60 * time.Second
	}
	if c.RingIdleTimeout == 0 {
		c.RingIdleTimeout = 10 * time.Second
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 30 * time.Second
	}
	if c.RingsToAnswer == 0 {
		c.RingsToAnswer = 2
	}
	if c.ValidationDuration == 0 {
		c.ValidationDuration = 2 * time.Second
	}
	if c.ValidationInterval == 0 {
		c.ValidationInterval = time.Second
	}
	if c.QualityThreshold == 0 {
		c.QualityThreshold = 0.9
	}
	if c.MaxRecoveryAttempts == 0 {
		c.MaxRecoveryAttempts = 3
	}
	if c.RecoveryPause == 0 {
		c.RecoveryPause = time.Second
	}
	if c.WakeUpPause == 0 {
		c.WakeUpPause = 500 * time.Millisecond
	}
	if c.HangupSettle == 0 {
		c.HangupSettle = 500 * time.Millisecond
	}
	if c.HangupTimeout == 0 {
		c.HangupTimeout = 3 * time.Second
	}
	if c.FirstMessage == "" {
		c.FirstMessage = "CONNECTED"
	}
	if c.SecondMessage == "" {
		c.SecondMessage = "GOODBYE"
	}
	if c.ClientSettle == 0 {
		c.ClientSettle = 2 * time.Second
	}
	if c.MessageGap == 0 {
		c.MessageGap = time.Second
	}
	if c.FinalWait == 0 {
		c.FinalWait = time.Second
	}
}

// autoAnswerCommand returns the arming command string for the mode.
func (c *Config) autoAnswerCommand() string {
	if c.Mode == ModeHardware {
		return c.AutoAnswerHardware
	}
	return c.AutoAnswerSoftware
}
