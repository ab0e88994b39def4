package cli

import (
	"github.com/spf13/cobra"
)

func NewCmdAuthCheck() *cobra.Command {
	o := DefaultGlobalOptions()
	cmd := &cobra.Command{
		Use:   "auth-check",
		Short: "Verify the configured Web Justice API key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			defer o.Close()
			if err := o.Validate(args); err != nil {
				return err
			}

			client, err := o.Client()
			if err != nil {
				return err
			}
			defer client.Close()

			report := map[string]interface{}{
				"base_url":      client.BaseURL(),
				"authenticated": true,
			}
			authErr := client.TestAuthentication(cmd.Context())
			if authErr != nil {
				report["authenticated"] = false
				report["error"] = authErr.Error()
			}

			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if authErr != nil {
				return ErrFailed
			}
			return nil
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func NewCmdHealth() *cobra.Command {
	o := DefaultGlobalOptions()
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Print the health document of the Web Justice API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			defer o.Close()

			client, err := o.Client()
			if err != nil {
				return err
			}
			defer client.Close()

			health := client.HealthCheck(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), health); err != nil {
				return err
			}
			if health["status"] == "unhealthy" {
				return ErrFailed
			}
			return nil
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}
