package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lmittmann/tint"

	"i4.energy/across/answerd/modem"
	"i4.energy/across/answerd/session"
)

// Options are the command-line options. Options left empty keep the value
// from the settings file or the environment.
type Options struct {
	Config      string   `short:"c" long:"config" env:"MODEM_CONFIG" description:"Settings file (key = value)"`
	Port        string   `short:"p" long:"port" description:"Serial port of the modem"`
	Baud        int      `short:"b" long:"baud" description:"Baud rate for serial communication"`
	Mode        string   `short:"m" long:"mode" choice:"hardware" choice:"software" description:"Auto-answer mode"`
	LogLevel    string   `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	LogFormat   string   `long:"log-format" choice:"text" choice:"json" description:"Log output format"`
	EnvFiles    []string `long:"env-file" description:"Load environment variables from file (repeatable)"`
	StatusAddr  string   `long:"status-addr" description:"Serve GET /status on this address"`
	PrintConfig bool     `long:"print-config" description:"Print the effective settings and exit"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	config, err := LoadConfig(
		WithDefaults(),
		WithFile(opts.Config),
		WithDotEnv(opts.EnvFiles...),
		WithEnv(),
		WithFlags(&opts),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to load configuration:", err)
		return 1
	}

	logger := newLogger(stderr, config)
	for _, problem := range config.Problems {
		logger.Warn("Setting ignored", "error", problem)
	}

	if opts.PrintConfig {
		config.Print(stdout)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, config, logger); err != nil {
		logger.Error("Session failed", "error", err)
		return 1
	}
	return 0
}

// serve runs one call session and reports an error unless the session
// went through the data phase and hung up.
func serve(ctx context.Context, config *Config, logger *slog.Logger) error {
	modemConfig, err := config.ModemConfig(logger)
	if err != nil {
		return fmt.Errorf("create modem config: %w", err)
	}

	m, err := modem.New(ctx, modemConfig)
	if err != nil {
		return fmt.Errorf("open modem: %w", err)
	}

	sess, err := session.New(m, config.SessionConfig(logger))
	if err != nil {
		m.Close()
		return err
	}
	defer func() {
		if err := sess.Shutdown(); err != nil {
			logger.Error("Failed to close modem", "error", err)
		}
	}()

	if config.StatusAddr != "" {
		httpServer := &http.Server{
			Addr: config.StatusAddr,
			Handler: &Server{
				Logger:  logger.With("component", "server"),
				Session: sess,
			},
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("Starting status server", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Status server failed", "error", err)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down status server", "error", err)
			}
		}()
	}

	logger.Info("Starting call session",
		"port", config.SerialPort,
		"baud", config.BaudRate,
		"mode", config.AutoAnswerMode)

	if err := sess.Run(ctx); err != nil {
		return err
	}
	if !sess.Completed() {
		return errors.New("session ended before the call completed")
	}

	logger.Info("Call session completed", "status", sess.Status())
	return nil
}

func newLogger(w io.Writer, config *Config) *slog.Logger {
	if config.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: config.Level()}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      config.Level(),
		TimeFormat: "2006-01-02 15:04:05.000",
	}))
}
