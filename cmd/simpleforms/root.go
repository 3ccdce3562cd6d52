package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	formsDir string
	format   string
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "simpleforms",
		Short:         "Process declaratively configured form submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.format, validFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.formsDir, "forms", "", "forms directory (overrides SIMPLEFORMS_FORMS_DIR)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	return cmd
}
