package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/config"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Options selects where logs go. Out defaults to stdout.
type Options struct {
	Out io.Writer
}

// New creates a new logger instance. When cfg.File is set, entries are also
// appended to that file; the returned closer releases it.
func New(cfg config.LogConfig, opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set formatter
	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}

	// Set output
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if cfg.File == "" {
		logger.SetOutput(out)
		return logger, noopCloser{}, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(out)
		return logger, noopCloser{}, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
	}
	logger.SetOutput(io.MultiWriter(out, file))

	return logger, file, nil
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
