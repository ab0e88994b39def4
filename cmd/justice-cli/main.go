package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexconsult/justice-tools/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := NewJusticeCtlCommand()
	if err := command.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func NewJusticeCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "justice-cli [command] [flags]",
		Short: "justice-cli consults legal processes and documents on the Web Justice API.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
		SilenceErrors: true,
	}
	cmd.AddCommand(cli.NewCmdProcess())
	cmd.AddCommand(cli.NewCmdDocument())
	cmd.AddCommand(cli.NewCmdExtract())
	cmd.AddCommand(cli.NewCmdValidate())
	cmd.AddCommand(cli.NewCmdAuthCheck())
	cmd.AddCommand(cli.NewCmdHealth())
	cmd.AddCommand(cli.NewCmdEnv())

	return cmd
}
