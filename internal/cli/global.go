// Package cli implements the justice-cli commands. Results are printed to
// stdout as a single JSON document; logs go to stderr.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nexconsult/justice-tools/internal/config"
	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/logger"
	"github.com/nexconsult/justice-tools/internal/polling"
	"github.com/nexconsult/justice-tools/internal/services"
	"github.com/nexconsult/justice-tools/internal/webjustice"
)

// ErrFailed is returned by commands that printed a failure document. The
// caller exits with status 1 without printing anything else.
var ErrFailed = errors.New("command failed")

type GlobalOptions struct {
	EnvFile  string
	LogLevel string

	config    *config.Config
	logger    *logrus.Logger
	logCloser io.Closer
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		EnvFile: ".env",
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Environment file loaded before reading the configuration, if present")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Overrides JUSTICE_TOOLS_LOG_LEVEL")
}

// Complete loads the configuration and builds a logger writing to the
// command's stderr, and to JUSTICE_TOOLS_LOG_FILE when set. Call Close once
// the command is done.
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.EnvFile != "" {
		// a missing file is fine, the environment may already be set
		_ = godotenv.Load(o.EnvFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	o.config = cfg

	log, closer, err := logger.New(cfg.Log, logger.Options{Out: cmd.ErrOrStderr()})
	if err != nil {
		log.WithError(err).Warn("Logging to stderr only")
	}
	o.logger = log
	o.logCloser = closer
	return nil
}

// Close releases the log file opened by Complete.
func (o *GlobalOptions) Close() error {
	if o.logCloser == nil {
		return nil
	}
	return o.logCloser.Close()
}

func (o *GlobalOptions) Validate(args []string) error {
	report := o.config.Validate()
	for _, warning := range report.Warnings {
		o.logger.Warn(warning)
	}
	if !report.Valid {
		return fmt.Errorf("invalid configuration: %v", report.Errors)
	}
	return nil
}

// Client opens a Web Justice client.
func (o *GlobalOptions) Client() (*webjustice.Client, error) {
	return webjustice.New(services.WebJusticeConfig(o.config.WebJustice), o.logger)
}

// Orchestrator builds an orchestrator that opens a fresh client for every
// consultation.
func (o *GlobalOptions) Orchestrator() (*consultation.Orchestrator, error) {
	pollCfg := services.PollingConfig(o.config.Polling)
	if err := pollCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid polling configuration: %w", err)
	}

	return consultation.New(
		consultation.ClientDialer(services.WebJusticeConfig(o.config.WebJustice), o.logger),
		polling.New(pollCfg, o.logger),
		o.logger,
		consultation.WithAuthCheck(o.config.WebJustice.VerifyAuth),
	), nil
}

// printJSON writes v indented, leaving non-ASCII and HTML characters as is.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
