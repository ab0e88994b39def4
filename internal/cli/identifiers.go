package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/models"
)

const kindHelp = "Identifier kind. One of: (cpf, cnpj, cnj, document, any)."

// identifierKind is a pflag.Value parsing identifier kinds by name
type identifierKind struct {
	kind *identifier.Kind
}

func (k identifierKind) String() string {
	if k.kind == nil {
		return ""
	}
	return strings.ToLower(k.kind.String())
}

func (k identifierKind) Set(name string) error {
	parsed, err := identifier.ParseKind(name)
	if err != nil {
		return err
	}
	*k.kind = parsed
	return nil
}

func (identifierKind) Type() string {
	return "kind"
}

type ExtractOptions struct {
	Kind identifier.Kind
}

func DefaultExtractOptions() *ExtractOptions {
	return &ExtractOptions{Kind: identifier.KindAny}
}

func NewCmdExtract() *cobra.Command {
	o := DefaultExtractOptions()
	cmd := &cobra.Command{
		Use:   "extract TEXT...",
		Short: "List the valid identifiers found in TEXT, in order of appearance.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := identifier.ExtractCandidates(strings.Join(args, " "), o.Kind)
			return printJSON(cmd.OutOrStdout(), models.ExtractResponse{
				Kind:        o.Kind,
				Identifiers: ids,
				Count:       len(ids),
			})
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ExtractOptions) Bind(fs *pflag.FlagSet) {
	fs.VarP(identifierKind{&o.Kind}, "kind", "k", kindHelp)
}

type ValidateOptions struct {
	Kind identifier.Kind
}

func DefaultValidateOptions() *ValidateOptions {
	return &ValidateOptions{Kind: identifier.KindAny}
}

func NewCmdValidate() *cobra.Command {
	o := DefaultValidateOptions()
	cmd := &cobra.Command{
		Use:   "validate VALUE",
		Short: "Check that VALUE is a single valid identifier. Exits 1 when it is not.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, args[0])
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ValidateOptions) Bind(fs *pflag.FlagSet) {
	fs.VarP(identifierKind{&o.Kind}, "kind", "k", kindHelp)
}

func (o *ValidateOptions) Run(cmd *cobra.Command, value string) error {
	response := models.ValidateResponse{
		Value: value,
		Kind:  o.Kind,
		Valid: identifier.Validate(value, o.Kind),
	}
	if response.Valid {
		normalized, err := identifier.Normalize(value)
		if err != nil {
			return fmt.Errorf("failed to normalize %q: %w", value, err)
		}
		response.Normalized = normalized
	}

	if err := printJSON(cmd.OutOrStdout(), response); err != nil {
		return err
	}
	if !response.Valid {
		return ErrFailed
	}
	return nil
}
