package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/dirgraph/internal/menu"
)

func newMenuCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctrl := menu.NewController(a.store, a.ingest, a.queries, opts.logger)
			if opts.cfg.RootPath != "" {
				ctrl.SetRoot(opts.cfg.RootPath)
			}
			return menu.Run(cmd.Context(), ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
