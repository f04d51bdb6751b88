package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.bug.st/serial"

	"i4.energy/across/answerd/modem"
	"i4.energy/across/answerd/session"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	config, err := LoadConfig(WithDefaults())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.SerialPort != "/dev/ttyUSB0" || config.BaudRate != 4800 {
		t.Errorf("port = %s@%d, want /dev/ttyUSB0@4800", config.SerialPort, config.BaudRate)
	}
	if config.AutoAnswerMode != session.ModeHardware {
		t.Errorf("mode = %v, want hardware", config.AutoAnswerMode)
	}
	if config.ATTimeout != 5*time.Second || config.ConnectTimeout != 30*time.Second {
		t.Errorf("timeouts = %v/%v, want 5s/30s", config.ATTimeout, config.ConnectTimeout)
	}
	if config.RetryDelay != 100*time.Millisecond || config.TxChunkDelay != 10*time.Millisecond {
		t.Errorf("delays = %v/%v, want 100ms/10ms", config.RetryDelay, config.TxChunkDelay)
	}
	if !config.CarrierDetect || !config.Validation || !config.Recovery {
		t.Error("carrier detect, validation and recovery should default to on")
	}
	if len(config.Problems) != 0 {
		t.Errorf("unexpected problems: %v", config.Problems)
	}
}

func TestWithFile(t *testing.T) {
	path := writeFile(t, "modem.conf", `
# serial line
serial_port = /dev/ttyS1
baudrate=9600
parity = even

this line has no equals sign
colour = blue
connect_timeout = soon
at_command_timeout = 2
retry_delay_us = 5000
tx_chunk_delay_us = 250ms
autoanswer_mode = 0
enable_connection_validation = 0
modem_init_command = ATZ; AT&F
first_message = HELLO = WORLD
`)

	config, err := LoadConfig(WithDefaults(), WithFile(path))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.SerialPort != "/dev/ttyS1" || config.BaudRate != 9600 {
		t.Errorf("port = %s@%d, want /dev/ttyS1@9600", config.SerialPort, config.BaudRate)
	}
	if config.Parity != "EVEN" {
		t.Errorf("Parity = %q, want EVEN", config.Parity)
	}
	if config.ConnectTimeout != 30*time.Second {
		t.Errorf("invalid value should keep the default, got %v", config.ConnectTimeout)
	}
	if config.ATTimeout != 2*time.Second {
		t.Errorf("ATTimeout = %v, want 2s", config.ATTimeout)
	}
	if config.RetryDelay != 5*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 5ms", config.RetryDelay)
	}
	if config.TxChunkDelay != 250*time.Millisecond {
		t.Errorf("TxChunkDelay = %v, want 250ms", config.TxChunkDelay)
	}
	if config.AutoAnswerMode != session.ModeSoftware {
		t.Errorf("mode = %v, want software", config.AutoAnswerMode)
	}
	if config.Validation {
		t.Error("validation should be off")
	}
	if config.InitCommand != "ATZ; AT&F" {
		t.Errorf("InitCommand = %q", config.InitCommand)
	}
	if config.FirstMessage != "HELLO = WORLD" {
		t.Errorf("FirstMessage = %q, value should keep everything after the first '='", config.FirstMessage)
	}

	if len(config.Problems) != 3 {
		t.Fatalf("problems = %v, want 3 (malformed line, unknown key, invalid duration)", config.Problems)
	}
	if !errors.Is(config.Problems[1], errUnknownSetting) {
		t.Errorf("second problem = %v, want unknown setting", config.Problems[1])
	}
	if !strings.Contains(config.Problems[0].Error(), ":7:") {
		t.Errorf("problem should carry the line number: %v", config.Problems[0])
	}
}

func TestWithFileMissing(t *testing.T) {
	config, err := LoadConfig(WithDefaults(), WithFile(filepath.Join(t.TempDir(), "absent.conf")))
	if err != nil {
		t.Fatalf("missing settings file should not be fatal: %v", err)
	}
	if config.BaudRate != 4800 {
		t.Errorf("BaudRate = %d, want default", config.BaudRate)
	}
	if len(config.Problems) != 1 || !errors.Is(config.Problems[0], os.ErrNotExist) {
		t.Errorf("problems = %v, want one not-exist problem", config.Problems)
	}
}

func TestWithEnv(t *testing.T) {
	path := writeFile(t, "modem.conf", "baudrate = 9600\nserial_port = /dev/ttyS1\n")
	t.Setenv("MODEM_BAUDRATE", "19200")
	t.Setenv("MODEM_MAX_WRITE_RETRY", "many")

	config, err := LoadConfig(WithDefaults(), WithFile(path), WithEnv())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.BaudRate != 19200 {
		t.Errorf("BaudRate = %d, environment should override the file", config.BaudRate)
	}
	if config.SerialPort != "/dev/ttyS1" {
		t.Errorf("SerialPort = %q, want the file value", config.SerialPort)
	}
	if config.MaxWriteRetry != 3 {
		t.Errorf("MaxWriteRetry = %d, want the default", config.MaxWriteRetry)
	}
	if len(config.Problems) != 1 || !strings.Contains(config.Problems[0].Error(), "MODEM_MAX_WRITE_RETRY") {
		t.Errorf("problems = %v, want one naming MODEM_MAX_WRITE_RETRY", config.Problems)
	}
}

func TestWithDotEnv(t *testing.T) {
	for _, name := range []string{"MODEM_FIRST_MESSAGE", "MODEM_SECOND_MESSAGE"} {
		os.Unsetenv(name)
		t.Cleanup(func() { os.Unsetenv(name) })
	}
	t.Setenv("MODEM_FIRST_MESSAGE", "FROM_ENV")

	path := writeFile(t, "test.env", "MODEM_FIRST_MESSAGE=FROM_DOTENV\nMODEM_SECOND_MESSAGE=FROM_DOTENV\n")

	config, err := LoadConfig(WithDefaults(), WithDotEnv(path), WithEnv())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.FirstMessage != "FROM_ENV" {
		t.Errorf("FirstMessage = %q, existing variables should win", config.FirstMessage)
	}
	if config.SecondMessage != "FROM_DOTENV" {
		t.Errorf("SecondMessage = %q, want FROM_DOTENV", config.SecondMessage)
	}

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadConfig(WithDefaults(), WithDotEnv(filepath.Join(t.TempDir(), "absent.env")))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want not-exist", err)
		}
	})
}

func TestWithFlags(t *testing.T) {
	t.Setenv("MODEM_SERIAL_PORT", "/dev/ttyS2")

	opts := &Options{Port: "/dev/ttyACM0", Baud: 2400, Mode: "software", LogFormat: "json", StatusAddr: ":8080"}
	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(opts))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.SerialPort != "/dev/ttyACM0" || config.BaudRate != 2400 {
		t.Errorf("port = %s@%d, flags should win", config.SerialPort, config.BaudRate)
	}
	if config.AutoAnswerMode != session.ModeSoftware {
		t.Errorf("mode = %v, want software", config.AutoAnswerMode)
	}
	if config.LogFormat != "json" || config.StatusAddr != ":8080" {
		t.Errorf("log format/status = %q/%q", config.LogFormat, config.StatusAddr)
	}

	t.Run("unset options keep earlier values", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(&Options{}))
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if config.SerialPort != "/dev/ttyS2" || config.AutoAnswerMode != session.ModeHardware {
			t.Errorf("port/mode = %s/%v", config.SerialPort, config.AutoAnswerMode)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		setting string
		value   string
		wantErr bool
	}{
		{"data bits out of range", "data_bits", "9", true},
		{"unknown parity", "parity", "sometimes", true},
		{"three stop bits", "stop_bits", "3", true},
		{"line buffer larger than buffer", "line_buffer_size", "4096", true},
		{"zero chunk size", "tx_chunk_size", "0", true},
		{"unknown log format", "log_format", "xml", true},
		{"empty serial port", "serial_port", "", true},
		{"zero AT timeout", "at_command_timeout", "0", true},
		{"zero connect timeout", "connect_timeout", "0", true},
		{"odd parity", "parity", "odd", false},
		{"two stop bits", "stop_bits", "2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(WithDefaults(), func(c *Config) error {
				return c.Set(tt.setting, tt.value)
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("flow control falls back to NONE", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults(), func(c *Config) error {
			return c.Set("flow_control", "rtscts")
		})
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if config.FlowControl != "NONE" || len(config.Problems) != 1 {
			t.Errorf("flow control = %q, problems %v", config.FlowControl, config.Problems)
		}
	})
}

func TestZeroLimits(t *testing.T) {
	path := writeFile(t, "modem.conf", `
max_write_retry = 0
max_recovery_attempts = 0
validation_duration = 0
`)

	config, err := LoadConfig(WithDefaults(), WithFile(path))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	modemConfig, err := config.ModemConfig(slog.Default())
	if err != nil {
		t.Fatalf("ModemConfig() error: %v", err)
	}
	if modemConfig.MaxWriteRetry != 0 {
		t.Errorf("MaxWriteRetry = %d, want 0", modemConfig.MaxWriteRetry)
	}

	sessionConfig := config.SessionConfig(slog.Default())
	if sessionConfig.MaxRecoveryAttempts != 0 || sessionConfig.ValidationDuration != 0 {
		t.Errorf("recovery attempts = %d, validation = %v, want 0/0",
			sessionConfig.MaxRecoveryAttempts, sessionConfig.ValidationDuration)
	}

	tt := modem.NewTestTransport()
	mcfg, err := modem.NewConfigBuilder().WithDialer(tt.Dialer()).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	m, err := modem.New(context.Background(), mcfg)
	if err != nil {
		t.Fatalf("modem.New() error: %v", err)
	}
	defer m.Close()

	sess, err := session.New(m, sessionConfig)
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}
	if outcome := sess.Recover(context.Background(), modem.ErrTimeout); outcome != session.RecoveryExhausted {
		t.Errorf("Recover() = %v, want exhausted", outcome)
	}
	if cmds := tt.Commands(); len(cmds) != 0 {
		t.Errorf("commands sent = %q, want none", cmds)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    slog.Level
	}{
		{"debug", true, slog.LevelDebug},
		{"info", true, slog.LevelInfo},
		{"warn", true, slog.LevelWarn},
		{"error", true, slog.LevelError},
		{"chatty", true, slog.LevelInfo},
		{"info", false, slog.LevelWarn},
		{"error", false, slog.LevelError},
	}

	for _, tt := range tests {
		config := &Config{LogLevel: tt.level, Verbose: tt.verbose}
		if got := config.Level(); got != tt.want {
			t.Errorf("Level(%q, verbose=%v) = %v, want %v", tt.level, tt.verbose, got, tt.want)
		}
	}
}

func TestConversions(t *testing.T) {
	config, err := LoadConfig(WithDefaults(), func(c *Config) error {
		c.Parity = "EVEN"
		c.StopBits = 2
		c.DataBits = 7
		c.AutoAnswerMode = session.ModeSoftware
		return nil
	})
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	mode := config.SerialMode()
	want := serial.Mode{BaudRate: 4800, DataBits: 7, Parity: serial.EvenParity, StopBits: serial.TwoStopBits}
	if *mode != want {
		t.Errorf("SerialMode() = %+v, want %+v", *mode, want)
	}

	modemConfig, err := config.ModemConfig(slog.Default())
	if err != nil {
		t.Fatalf("ModemConfig() error: %v", err)
	}
	if modemConfig.BufferSize != 1024 || modemConfig.LineSize != 256 {
		t.Errorf("buffer sizes = %d/%d, want 1024/256", modemConfig.BufferSize, modemConfig.LineSize)
	}
	if modemConfig.Dialer == nil {
		t.Error("ModemConfig() should carry a serial dialer")
	}

	sessionConfig := config.SessionConfig(slog.Default())
	if sessionConfig.Mode != session.ModeSoftware || sessionConfig.BaudRate != 4800 {
		t.Errorf("session mode/baud = %v/%d", sessionConfig.Mode, sessionConfig.BaudRate)
	}
	if sessionConfig.FirstMessage != "CONNECTED" || sessionConfig.SecondMessage != "GOODBYE" {
		t.Errorf("messages = %q/%q", sessionConfig.FirstMessage, sessionConfig.SecondMessage)
	}
}

func TestPrint(t *testing.T) {
	config, err := LoadConfig(WithDefaults())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	var buf bytes.Buffer
	config.Print(&buf)
	out := buf.String()

	for _, line := range []string{
		"=== Current Configuration ===",
		"Serial Port: /dev/ttyUSB0 at 4800 baud (8-NONE-1, flow: NONE)",
		"Autoanswer Mode: HARDWARE (ATE0 S0=2)",
		"Timeouts: AT=5s, Answer=60s, Ring=60s, Idle=10s, Connect=30s",
		"Buffers: 1024 bytes, Line: 256 bytes",
		"Retry: Max 3 attempts, Delay 100000 us",
		"Logging: Verbose=ON, TX Log=ON, Timing=ON",
		"Advanced: Carrier Detect=ON, Validation=ON (2s), Recovery=ON (max 3)",
	} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}
