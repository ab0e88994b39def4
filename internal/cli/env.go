package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nexconsult/justice-tools/internal/config"
)

type EnvOptions struct {
	EnvFile string
	Check   bool
}

func DefaultEnvOptions() *EnvOptions {
	return &EnvOptions{EnvFile: ".env"}
}

func NewCmdEnv() *cobra.Command {
	o := DefaultEnvOptions()
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Describe the environment variables, or check the current ones with --check.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !o.Check {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.EnvHelp)
				return err
			}
			return o.Run(cmd)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *EnvOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Environment file loaded before reading the configuration, if present")
	fs.BoolVar(&o.Check, "check", o.Check, "Validate the current configuration and print the report")
}

// Run prints the validation report. A missing API key is reported, not
// returned as an error.
func (o *EnvOptions) Run(cmd *cobra.Command) error {
	if o.EnvFile != "" {
		_ = godotenv.Load(o.EnvFile)
	}

	cfg := config.FromEnv()
	report := cfg.Validate()
	if err := printJSON(cmd.OutOrStdout(), map[string]interface{}{
		"report": report,
		"config": cfg,
	}); err != nil {
		return err
	}
	if !report.Valid {
		return ErrFailed
	}
	return nil
}
