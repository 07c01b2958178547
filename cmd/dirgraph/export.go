package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/dirgraph/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the graph as a Mermaid diagram or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "mermaid" && format != "json" {
				return fmt.Errorf("unknown format %q: want mermaid or json", format)
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "json":
				data, err := export.ExportGraph(cmd.Context(), a.store)
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				return export.WriteJSON(w, data)
			default:
				diagram, err := export.GenerateMermaid(cmd.Context(), a.store)
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				_, err = io.WriteString(w, diagram)
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "output format: mermaid or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
