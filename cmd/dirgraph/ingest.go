package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/dirgraph/internal/ingest"
)

func newIngestCmd(opts *rootOptions) *cobra.Command {
	var (
		quiet   bool
		asJSON  bool
		doReset bool
	)

	cmd := &cobra.Command{
		Use:   "ingest [root]",
		Short: "Walk a directory tree and write it to the graph",
		Long: `Walk the tree under root depth-first and write each directory with its
files in one transaction. Directories that cannot be read are counted and
skipped. Without an argument the rootPath from the config is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.rootArg(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var extra []ingest.Option
			stopProgress := func() {}
			if !quiet && !asJSON {
				pr := ingest.NewBlockingProgressReporter()
				extra = append(extra, ingest.WithProgress(pr))
				stopProgress = printProgress(out, pr)
			}
			defer stopProgress()

			a, err := opts.open(cmd.Context(), extra...)
			if err != nil {
				return err
			}
			defer a.Close()

			if doReset {
				if err := a.store.Reset(cmd.Context()); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
			}

			res, ingestErr := a.ingest.Ingest(cmd.Context(), root)
			stopProgress()
			if ingestErr != nil {
				return ingestErr
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "Built graph from %s: %d directories, %d files, %d unreadable (%d retries) in %s\n",
				res.Root, res.Directories, res.Files, res.Unreadable, res.Retries, res.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-directory progress")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run summary as JSON")
	cmd.Flags().BoolVar(&doReset, "reset", false, "clear the graph before ingesting")
	return cmd
}

// printProgress writes one line per event until the returned stop function
// closes the reporter. stop waits for the last line and is safe to call more
// than once.
func printProgress(out io.Writer, pr *ingest.ProgressReporter) (stop func()) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range pr.Subscribe() {
			fmt.Fprintln(out, ingest.FormatProgress(ev))
		}
	}()
	return sync.OnceFunc(func() {
		pr.Close()
		wg.Wait()
	})
}
