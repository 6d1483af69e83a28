// Command stride works with YAML model declarations: it validates them
// and renders them as documentation, without the Go code the names bind
// to.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpelkone/stride/pkg/extract"
	"github.com/jpelkone/stride/pkg/modelfile"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stride",
		Short: "Work with use case model declarations",
		Long: `Stride models declare use cases, flows and steps in YAML; the
events, reactions and conditions they name live in Go code. This tool
validates declarations and renders them as documentation.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newDocsCommand())
	cmd.AddCommand(newValidateCommand())
	return cmd
}

func newDocsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "docs <model.yaml>",
		Short: "Render a model declaration as documentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := modelfile.LoadFile(args[0], modelfile.Bindings{}, modelfile.AllowUnbound())
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return extract.Extract(model, cmd.OutOrStdout())
			case "yaml":
				return extract.ExtractYAML(model, cmd.OutOrStdout())
			default:
				return fmt.Errorf("invalid format %q: must be text or yaml", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|yaml)")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <model.yaml>",
		Short: "Check a model declaration for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := modelfile.LoadFile(args[0], modelfile.Bindings{}, modelfile.AllowUnbound())
			if err != nil {
				return err
			}
			steps := 0
			for _, uc := range model.UseCases() {
				steps += len(uc.Steps())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d use case(s), %d step(s)\n",
				len(model.UseCases()), steps)
			return nil
		},
	}
}
