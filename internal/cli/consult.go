package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/tools"
)

type ConsultOptions struct {
	GlobalOptions

	kind identifier.Kind
}

func DefaultConsultOptions(kind identifier.Kind) *ConsultOptions {
	return &ConsultOptions{
		GlobalOptions: DefaultGlobalOptions(),
		kind:          kind,
	}
}

func NewCmdProcess() *cobra.Command {
	return newConsultCommand(
		"process TEXT...",
		"Consult a legal process by the CNJ number found in TEXT.",
		identifier.KindCNJ,
	)
}

func NewCmdDocument() *cobra.Command {
	return newConsultCommand(
		"document TEXT...",
		"Consult the legal processes linked to the CPF or CNPJ found in TEXT.",
		identifier.KindDocument,
	)
}

func newConsultCommand(use, short string, kind identifier.Kind) *cobra.Command {
	o := DefaultConsultOptions(kind)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				_ = printJSON(cmd.OutOrStdout(), tools.MissingInput(consultation.ToolFor(kind)))
				return ErrFailed
			}

			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			defer o.Close()
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd, text)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ConsultOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *ConsultOptions) Run(cmd *cobra.Command, text string) error {
	orchestrator, err := o.Orchestrator()
	if err != nil {
		return err
	}

	// failed consultations are reported in the document, not the exit code
	return printJSON(cmd.OutOrStdout(), orchestrator.Consult(cmd.Context(), text, o.kind))
}
