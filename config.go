package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.bug.st/serial"

	"i4.energy/across/answerd/modem"
	"i4.energy/across/answerd/session"
)

// EnvPrefix is prepended to the upper-cased settings key to form the
// environment variable name, e.g. MODEM_SERIAL_PORT.
const EnvPrefix = "MODEM_"

var errUnknownSetting = errors.New("unknown setting")

// Config holds the application configuration
type Config struct {
	// SerialPort is the modem device (e.g. "/dev/ttyUSB0")
	SerialPort  string
	BaudRate    int
	DataBits    int
	Parity      string
	StopBits    int
	FlowControl string
	// LockDir holds the UUCP lock file for SerialPort
	LockDir string

	InitCommand        string
	AutoAnswerSoftware string
	AutoAnswerHardware string
	HangupCommand      string
	AutoAnswerMode     session.Mode

	ATTimeout       time.Duration
	AnswerTimeout   time.Duration
	RingWaitTimeout time.Duration
	RingIdleTimeout time.Duration
	ConnectTimeout  time.Duration

	BufferSize     int
	LineBufferSize int

	MaxWriteRetry int
	RetryDelay    time.Duration
	TxChunkSize   int
	TxChunkDelay  time.Duration

	Verbose         bool
	TransmissionLog bool
	TimingLog       bool

	CarrierDetect       bool
	Validation          bool
	ValidationDuration  time.Duration
	Recovery            bool
	MaxRecoveryAttempts int

	FirstMessage  string
	SecondMessage string

	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// LogFormat is "text" or "json"
	LogFormat string
	// StatusAddr enables the HTTP status endpoint when not empty
	StatusAddr string

	// Problems collects settings that were ignored while loading. None of
	// them is fatal.
	Problems []error
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
// and validates the result
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 4800
		c.DataBits = 8
		c.Parity = "NONE"
		c.StopBits = 1
		c.FlowControl = "NONE"
		c.LockDir = modem.DefaultLockDir

		c.InitCommand = "ATZ; AT&F Q0 V1 X4 &C1 &D2 S7=60 S10=120 S30=5"
		c.AutoAnswerSoftware = "ATE0 S0=0"
		c.AutoAnswerHardware = "ATE0 S0=2"
		c.HangupCommand = "ATH"
		c.AutoAnswerMode = session.ModeHardware

		c.ATTimeout = 5 * time.Second
		c.AnswerTimeout = 60 * time.Second
		c.RingWaitTimeout = 60 * time.Second
		c.RingIdleTimeout = 10 * time.Second
		c.ConnectTimeout = 30 * time.Second

		c.BufferSize = 1024
		c.LineBufferSize = 256

		c.MaxWriteRetry = 3
		c.RetryDelay = 100 * time.Millisecond
		c.TxChunkSize = 256
		c.TxChunkDelay = 10 * time.Millisecond

		c.Verbose = true
		c.TransmissionLog = true
		c.TimingLog = true

		c.CarrierDetect = true
		c.Validation = true
		c.ValidationDuration = 2 * time.Second
		c.Recovery = true
		c.MaxRecoveryAttempts = 3

		c.FirstMessage = "CONNECTED"
		c.SecondMessage = "GOODBYE"

		c.LogLevel = "info"
		c.LogFormat = "text"
		return nil
	}
}

// WithFile reads a key = value settings file. An empty path is a no-op and
// a missing file leaves the current values in place.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			c.Problems = append(c.Problems, fmt.Errorf("settings file not loaded: %w", err))
			return nil
		}
		defer f.Close()

		c.Problems = append(c.Problems, c.parse(f, path)...)
		return nil
	}
}

// WithDotEnv loads the given files into the process environment without
// overriding variables that are already set. Without files it loads
// ./.env if there is one.
func WithDotEnv(files ...string) ConfigOption {
	return func(c *Config) error {
		err := godotenv.Load(files...)
		if len(files) == 0 && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
}

// WithEnv loads configuration from MODEM_* environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		for _, key := range slices.Sorted(maps.Keys(settings)) {
			name := EnvPrefix + strings.ToUpper(key)
			value, ok := os.LookupEnv(name)
			if !ok {
				continue
			}
			if err := c.Set(key, value); err != nil {
				c.Problems = append(c.Problems, fmt.Errorf("%s: %w", name, err))
			}
		}
		return nil
	}
}

// WithFlags loads configuration from command-line options. Zero values
// mean the option was not given.
func WithFlags(opts *Options) ConfigOption {
	return func(c *Config) error {
		if opts == nil {
			return nil
		}
		if opts.Port != "" {
			c.SerialPort = opts.Port
		}
		if opts.Baud != 0 {
			c.BaudRate = opts.Baud
		}
		if opts.Mode != "" {
			mode, err := session.ParseMode(opts.Mode)
			if err != nil {
				return err
			}
			c.AutoAnswerMode = mode
		}
		if opts.LogLevel != "" {
			c.LogLevel = opts.LogLevel
		}
		if opts.LogFormat != "" {
			c.LogFormat = opts.LogFormat
		}
		if opts.StatusAddr != "" {
			c.StatusAddr = opts.StatusAddr
		}
		return nil
	}
}

// parse applies every key = value line of r. Comments start with '#'.
func (c *Config) parse(r io.Reader, name string) []error {
	var problems []error
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			problems = append(problems, fmt.Errorf("%s:%d: invalid line %q", name, n, line))
			continue
		}
		if err := c.Set(key, strings.TrimSpace(value)); err != nil {
			problems = append(problems, fmt.Errorf("%s:%d: %s: %w", name, n, key, err))
		}
	}
	if err := scanner.Err(); err != nil {
		problems = append(problems, fmt.Errorf("%s: %w", name, err))
	}
	return problems
}

// Set assigns one setting by its settings-file key. On error the previous
// value is kept.
func (c *Config) Set(key, value string) error {
	set, ok := settings[key]
	if !ok {
		return errUnknownSetting
	}
	return set(c, value)
}

type setter func(c *Config, value string) error

// settings maps the settings-file keys to their fields. Timeouts are given
// in seconds and the retry and chunk delays in microseconds, as in the
// settings files of the serial tools this replaces; a Go duration such as
// "250ms" is accepted too.
var settings = map[string]setter{
	"serial_port":  text(func(c *Config) *string { return &c.SerialPort }),
	"baudrate":     integer(func(c *Config) *int { return &c.BaudRate }),
	"data_bits":    integer(func(c *Config) *int { return &c.DataBits }),
	"parity":       upper(func(c *Config) *string { return &c.Parity }),
	"stop_bits":    integer(func(c *Config) *int { return &c.StopBits }),
	"flow_control": upper(func(c *Config) *string { return &c.FlowControl }),
	"lock_dir":     text(func(c *Config) *string { return &c.LockDir }),

	"modem_init_command":                text(func(c *Config) *string { return &c.InitCommand }),
	"modem_autoanswer_software_command": text(func(c *Config) *string { return &c.AutoAnswerSoftware }),
	"modem_autoanswer_hardware_command": text(func(c *Config) *string { return &c.AutoAnswerHardware }),
	"modem_hangup_command":              text(func(c *Config) *string { return &c.HangupCommand }),
	"autoanswer_mode": func(c *Config, value string) error {
		mode, err := session.ParseMode(value)
		if err != nil {
			return err
		}
		c.AutoAnswerMode = mode
		return nil
	},

	"at_command_timeout": duration(time.Second, func(c *Config) *time.Duration { return &c.ATTimeout }),
	"at_answer_timeout":  duration(time.Second, func(c *Config) *time.Duration { return &c.AnswerTimeout }),
	"ring_wait_timeout":  duration(time.Second, func(c *Config) *time.Duration { return &c.RingWaitTimeout }),
	"ring_idle_timeout":  duration(time.Second, func(c *Config) *time.Duration { return &c.RingIdleTimeout }),
	"connect_timeout":    duration(time.Second, func(c *Config) *time.Duration { return &c.ConnectTimeout }),

	"buffer_size":      integer(func(c *Config) *int { return &c.BufferSize }),
	"line_buffer_size": integer(func(c *Config) *int { return &c.LineBufferSize }),

	"max_write_retry":   integer(func(c *Config) *int { return &c.MaxWriteRetry }),
	"retry_delay_us":    duration(time.Microsecond, func(c *Config) *time.Duration { return &c.RetryDelay }),
	"tx_chunk_size":     integer(func(c *Config) *int { return &c.TxChunkSize }),
	"tx_chunk_delay_us": duration(time.Microsecond, func(c *Config) *time.Duration { return &c.TxChunkDelay }),

	"verbose_mode":            boolean(func(c *Config) *bool { return &c.Verbose }),
	"enable_transmission_log": boolean(func(c *Config) *bool { return &c.TransmissionLog }),
	"enable_timing_log":       boolean(func(c *Config) *bool { return &c.TimingLog }),

	"enable_carrier_detect":        boolean(func(c *Config) *bool { return &c.CarrierDetect }),
	"enable_connection_validation": boolean(func(c *Config) *bool { return &c.Validation }),
	"validation_duration":          duration(time.Second, func(c *Config) *time.Duration { return &c.ValidationDuration }),
	"enable_error_recovery":        boolean(func(c *Config) *bool { return &c.Recovery }),
	"max_recovery_attempts":        integer(func(c *Config) *int { return &c.MaxRecoveryAttempts }),

	"first_message":  text(func(c *Config) *string { return &c.FirstMessage }),
	"second_message": text(func(c *Config) *string { return &c.SecondMessage }),

	"log_level":   text(func(c *Config) *string { return &c.LogLevel }),
	"log_format":  text(func(c *Config) *string { return &c.LogFormat }),
	"status_addr": text(func(c *Config) *string { return &c.StatusAddr }),
}

func text(field func(*Config) *string) setter {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}

func upper(field func(*Config) *string) setter {
	return func(c *Config, value string) error {
		*field(c) = strings.ToUpper(value)
		return nil
	}
}

func integer(field func(*Config) *int) setter {
	return func(c *Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q", value)
		}
		*field(c) = n
		return nil
	}
}

func boolean(field func(*Config) *bool) setter {
	return func(c *Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value %q", value)
		}
		*field(c) = b
		return nil
	}
}

func duration(unit time.Duration, field func(*Config) *time.Duration) setter {
	return func(c *Config, value string) error {
		d, err := parseDuration(value, unit)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

// parseDuration reads a plain integer in unit or a Go duration string.
func parseDuration(value string, unit time.Duration) (time.Duration, error) {
	var d time.Duration
	if n, err := strconv.Atoi(value); err == nil {
		d = time.Duration(n) * unit
	} else if d, err = time.ParseDuration(value); err != nil {
		return 0, fmt.Errorf("invalid duration value %q", value)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", value)
	}
	return d, nil
}

func (c *Config) validate() error {
	if c.SerialPort == "" {
		return errors.New("serial_port is required")
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("invalid baudrate %d", c.BaudRate)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("invalid data_bits %d", c.DataBits)
	}
	if _, err := c.parity(); err != nil {
		return err
	}
	if _, err := c.stopBits(); err != nil {
		return err
	}
	if c.BufferSize <= 0 || c.LineBufferSize <= 0 || c.LineBufferSize > c.BufferSize {
		return fmt.Errorf("invalid buffer sizes %d/%d", c.BufferSize, c.LineBufferSize)
	}
	if c.TxChunkSize <= 0 {
		return fmt.Errorf("invalid tx_chunk_size %d", c.TxChunkSize)
	}
	if c.ATTimeout <= 0 || c.AnswerTimeout <= 0 || c.RingWaitTimeout <= 0 || c.ConnectTimeout <= 0 {
		return errors.New("at_command_timeout, at_answer_timeout, ring_wait_timeout and connect_timeout must be positive")
	}
	if c.MaxWriteRetry < 0 || c.MaxRecoveryAttempts < 0 {
		return errors.New("retry and recovery limits must not be negative")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	if c.FlowControl != "NONE" {
		c.Problems = append(c.Problems, fmt.Errorf("flow_control %s is not supported, using NONE", c.FlowControl))
		c.FlowControl = "NONE"
	}
	return nil
}

func (c *Config) parity() (serial.Parity, error) {
	switch c.Parity {
	case "NONE", "N":
		return serial.NoParity, nil
	case "EVEN", "E":
		return serial.EvenParity, nil
	case "ODD", "O":
		return serial.OddParity, nil
	case "MARK", "M":
		return serial.MarkParity, nil
	case "SPACE", "S":
		return serial.SpaceParity, nil
	default:
		return serial.NoParity, fmt.Errorf("invalid parity %q", c.Parity)
	}
}

func (c *Config) stopBits() (serial.StopBits, error) {
	switch c.StopBits {
	case 1:
		return serial.OneStopBit, nil
	case 2:
		return serial.TwoStopBits, nil
	default:
		return serial.OneStopBit, fmt.Errorf("invalid stop_bits %d", c.StopBits)
	}
}

// Level returns the slog level for LogLevel. With verbose_mode off nothing
// below warn is logged.
func (c *Config) Level() slog.Level {
	level := slog.LevelInfo
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if !c.Verbose && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return level
}

// SerialMode returns the line settings for opening the port.
func (c *Config) SerialMode() *serial.Mode {
	parity, _ := c.parity()
	stopBits, _ := c.stopBits()
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}
}

// ModemConfig builds the command engine configuration on a serial dialer.
func (c *Config) ModemConfig(logger *slog.Logger) (modem.Config, error) {
	return modem.NewConfigBuilder().
		WithLogger(logger).
		WithATTimeout(c.ATTimeout).
		WithBufferSizes(c.BufferSize, c.LineBufferSize).
		WithWriteRetry(c.MaxWriteRetry, c.RetryDelay).
		WithChunking(c.TxChunkSize, c.TxChunkDelay).
		WithTransmissionLog(c.TransmissionLog).
		WithDialer(modem.SerialDialer{
			PortName: c.SerialPort,
			BaudRate: c.BaudRate,
			Mode:     c.SerialMode(),
			LockDir:  c.LockDir,
			Logger:   logger,
		}).
		Build()
}

// SessionConfig returns the call session settings. Values are passed as
// loaded, so an explicit zero such as max_recovery_attempts = 0 is kept.
func (c *Config) SessionConfig(logger *slog.Logger) session.Config {
	sc := session.DefaultConfig()
	sc.Logger = logger
	sc.Mode = c.AutoAnswerMode
	sc.BaudRate = c.BaudRate
	sc.InitCommand = c.InitCommand
	sc.AutoAnswerSoftware = c.AutoAnswerSoftware
	sc.AutoAnswerHardware = c.AutoAnswerHardware
	sc.HangupCommand = c.HangupCommand
	sc.ATTimeout = c.ATTimeout
	sc.AnswerTimeout = c.AnswerTimeout
	sc.RingWaitTimeout = c.RingWaitTimeout
	sc.RingIdleTimeout = c.RingIdleTimeout
	sc.ConnectTimeout = c.ConnectTimeout
	sc.CarrierDetect = c.CarrierDetect
	sc.Validation = c.Validation
	sc.ValidationDuration = c.ValidationDuration
	sc.Recovery = c.Recovery
	sc.MaxRecoveryAttempts = c.MaxRecoveryAttempts
	sc.FirstMessage = c.FirstMessage
	sc.SecondMessage = c.SecondMessage
	sc.TimingLog = c.TimingLog
	return sc
}

// Print writes a summary of the effective settings.
func (c *Config) Print(w io.Writer) {
	onOff := func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	}
	seconds := func(d time.Duration) string {
		return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
	}

	fmt.Fprintln(w, "=== Current Configuration ===")
	fmt.Fprintf(w, "Serial Port: %s at %d baud (%d-%s-%d, flow: %s)\n",
		c.SerialPort, c.BaudRate, c.DataBits, c.Parity, c.StopBits, c.FlowControl)
	command := c.AutoAnswerSoftware
	if c.AutoAnswerMode == session.ModeHardware {
		command = c.AutoAnswerHardware
	}
	fmt.Fprintf(w, "Autoanswer Mode: %s (%s)\n", strings.ToUpper(c.AutoAnswerMode.String()), command)
	fmt.Fprintf(w, "Timeouts: AT=%s, Answer=%s, Ring=%s, Idle=%s, Connect=%s\n",
		seconds(c.ATTimeout), seconds(c.AnswerTimeout), seconds(c.RingWaitTimeout),
		seconds(c.RingIdleTimeout), seconds(c.ConnectTimeout))
	fmt.Fprintf(w, "Buffers: %d bytes, Line: %d bytes\n", c.BufferSize, c.LineBufferSize)
	fmt.Fprintf(w, "Retry: Max %d attempts, Delay %d us\n", c.MaxWriteRetry, c.RetryDelay.Microseconds())
	fmt.Fprintf(w, "Transmit: Chunk %d bytes, Delay %d us\n", c.TxChunkSize, c.TxChunkDelay.Microseconds())
	fmt.Fprintf(w, "Logging: Verbose=%s, TX Log=%s, Timing=%s\n",
		onOff(c.Verbose), onOff(c.TransmissionLog), onOff(c.TimingLog))
	fmt.Fprintf(w, "Advanced: Carrier Detect=%s, Validation=%s (%s), Recovery=%s (max %d)\n",
		onOff(c.CarrierDetect), onOff(c.Validation), seconds(c.ValidationDuration),
		onOff(c.Recovery), c.MaxRecoveryAttempts)
	fmt.Fprintf(w, "Messages: %q, %q\n", c.FirstMessage, c.SecondMessage)
}
