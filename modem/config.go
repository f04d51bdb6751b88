package modem

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds the settings of the command and transmission engines. It is
// copied into the Modem and never modified afterwards.
type Config struct {
	Dialer Dialer
	Logger *slog.Logger

	// ATTimeout bounds a single command exchange unless the caller passes
	// its own timeout.
	ATTimeout time.Duration
	// BufferSize is the capacity of the line reader buffer.
	BufferSize int
	// LineSize is the longest response line delivered; longer lines are cut.
	LineSize int
	// ReadSlice bounds each underlying read so deadlines are honored with
	// sub-second granularity.
	ReadSlice time.Duration
	// ResponseSettle is the pause between writing a command and reading.
	ResponseSettle time.Duration
	// CommandPause separates the commands of a multi-command string.
	CommandPause time.Duration

	MaxWriteRetry int
	RetryDelay    time.Duration
	ChunkSize     int
	ChunkDelay    time.Duration

	// TransmissionLog logs every payload write at info level.
	TransmissionLog bool

	// built marks a Config returned by Build. Its zero values are explicit
	// and New leaves them alone.
	built bool
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	switch {
	case c.ATTimeout <= 0:
		return fmt.Errorf("%w: AT timeout must be positive", ErrInvalidConfig)
	case c.ReadSlice <= 0:
		return fmt.Errorf("%w: read slice must be positive", ErrInvalidConfig)
	case c.BufferSize <= 0 || c.LineSize <= 0:
		return fmt.Errorf("%w: buffer sizes must be positive", ErrInvalidConfig)
	case c.MaxWriteRetry < 0 || c.ChunkSize < 0:
		return fmt.Errorf("%w: write retry and chunk size must not be negative", ErrInvalidConfig)
	case c.ResponseSettle < 0 || c.CommandPause < 0 || c.RetryDelay < 0 || c.ChunkDelay < 0:
		return fmt.Errorf("%w: pauses must not be negative", ErrInvalidConfig)
	}
	return nil
}

// setDefaults fills zero fields of a Config assembled by hand. A Config from
// Build is already complete.
func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.built {
		return
	}
	if c.ATTimeout == 0 {
		c.ATTimeout = 5 * time.Second
	}
	if c.BufferSize == 0 {
		c.BufferSize = 2048
	}
	if c.LineSize == 0 {
		c.LineSize = 256
	}
	if c.ReadSlice == 0 {
		c.ReadSlice = time.Second
	}
	if c.ResponseSettle == 0 {
		c.ResponseSettle = 100 * time.Millisecond
	}
	if c.CommandPause == 0 {
		c.CommandPause = 200 * time.Millisecond
	}
	if c.MaxWriteRetry == 0 {
		c.MaxWriteRetry = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 100 * time.Millisecond
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 256
	}
	if c.ChunkDelay == 0 {
		c.ChunkDelay = 10 * time.Millisecond
	}
}

// ConfigBuilder assembles a Config step by step. Values passed to the With
// methods are kept as given, zero included; everything else gets its
// default.
type ConfigBuilder struct {
	opts []func(*Config)
}

// NewConfigBuilder returns a builder holding an empty Config.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) with(opt func(*Config)) *ConfigBuilder {
	b.opts = append(b.opts, opt)
	return b
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	return b.with(func(c *Config) { c.Dialer = d })
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	return b.with(func(c *Config) { c.Logger = l })
}

func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	return b.with(func(c *Config) { c.ATTimeout = d })
}

func (b *ConfigBuilder) WithBufferSizes(buffer, line int) *ConfigBuilder {
	return b.with(func(c *Config) {
		c.BufferSize = buffer
		c.LineSize = line
	})
}

func (b *ConfigBuilder) WithReadSlice(d time.Duration) *ConfigBuilder {
	return b.with(func(c *Config) { c.ReadSlice = d })
}

// WithPacing sets the pause after writing a command and the pause between
// the commands of a multi-command string.
func (b *ConfigBuilder) WithPacing(settle, pause time.Duration) *ConfigBuilder {
	return b.with(func(c *Config) {
		c.ResponseSettle = settle
		c.CommandPause = pause
	})
}

// WithWriteRetry sets how many stalled writes in a row are retried and the
// pause before each retry. Zero retries fails a write on its first stall.
func (b *ConfigBuilder) WithWriteRetry(max int, delay time.Duration) *ConfigBuilder {
	return b.with(func(c *Config) {
		c.MaxWriteRetry = max
		c.RetryDelay = delay
	})
}

func (b *ConfigBuilder) WithChunking(size int, delay time.Duration) *ConfigBuilder {
	return b.with(func(c *Config) {
		c.ChunkSize = size
		c.ChunkDelay = delay
	})
}

func (b *ConfigBuilder) WithTransmissionLog(on bool) *ConfigBuilder {
	return b.with(func(c *Config) { c.TransmissionLog = on })
}

// Build applies the collected settings over the defaults and validates the
// result.
func (b *ConfigBuilder) Build() (Config, error) {
	var c Config
	c.setDefaults()
	for _, opt := range b.opts {
		opt(&c)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.built = true
	c.setDefaults()
	return c, nil
}
