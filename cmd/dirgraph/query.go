package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/dirgraph/internal/query"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	kinds := make([]string, 0, len(query.Kinds()))
	for _, k := range query.Kinds() {
		kinds = append(kinds, string(k))
	}

	return &cobra.Command{
		Use:   "query <kind>",
		Short: "Answer a structural question about the graph",
		Long: fmt.Sprintf(`Run one of the fixed graph queries and print the answer, or "no match".

Kinds: %s`, strings.Join(kinds, ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			answer, err := a.queries.Run(cmd.Context(), query.Kind(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print node and edge counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.queries.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "directories: %d\n", stats.DirectoryCount)
			fmt.Fprintf(out, "files:       %d\n", stats.FileCount)
			fmt.Fprintf(out, "edges:       %d\n", stats.EdgeCount)
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every node and edge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "graph reset")
			return nil
		},
	}
}
