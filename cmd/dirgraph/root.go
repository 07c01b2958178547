package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/dirgraph/internal/config"
	"github.com/dusk-indust/dirgraph/internal/graph"
	"github.com/dusk-indust/dirgraph/internal/ingest"
	"github.com/dusk-indust/dirgraph/internal/query"
	"github.com/dusk-indust/dirgraph/internal/telemetry"
)

// rootOptions holds the persistent flags and what PersistentPreRunE builds
// from them.
type rootOptions struct {
	configPath string
	backend    string
	verbose    bool
	trace      bool

	cfg      *config.Config
	logger   *slog.Logger
	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dirgraph",
		Short: "Load a directory tree into a graph database and query it",
		Long: `dirgraph walks a directory tree and records every directory and file
as nodes joined by HAS_CHILD edges in a graph store (KuzuDB, Neo4j or
memory). Writes are merge-creates, so rebuilding the same tree is safe.

Settings are read from dirgraph.yml in the working directory unless
--config names another file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.shutdown == nil {
				return nil
			}
			return opts.shutdown(context.Background())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a dirgraph.yml file")
	flags.StringVar(&opts.backend, "backend", "", "store backend: kuzu, neo4j or memory (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.trace, "trace", false, "print trace spans to stderr")

	cmd.AddCommand(
		newIngestCmd(opts),
		newQueryCmd(opts),
		newStatsCmd(opts),
		newResetCmd(opts),
		newExportCmd(opts),
		newMenuCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// setup loads configuration and sets up logging and tracing.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}
	if o.backend != "" {
		cfg.Store.Backend = o.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := telemetry.NewLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if o.trace {
		shutdown, err := telemetry.InitTracing(cmd.ErrOrStderr(), version)
		if err != nil {
			return err
		}
		o.shutdown = shutdown
	}

	o.cfg = cfg
	o.logger = logger
	return nil
}

// app is the store and engines one command works with.
type app struct {
	store   graph.Store
	ingest  *ingest.Engine
	queries *query.Engine
}

// open connects to the configured store. Extra options are applied to the
// ingest engine after the defaults from config.
func (o *rootOptions) open(ctx context.Context, extra ...ingest.Option) (*app, error) {
	store, err := openStore(ctx, o.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", o.cfg.Store.Backend, err)
	}
	o.logger.Debug("store opened", "backend", o.cfg.Store.Backend)

	ingestOpts := []ingest.Option{
		ingest.WithLogger(o.logger),
		ingest.WithRetryPolicy(ingest.RetryPolicy{
			MaxAttempts: o.cfg.Retry.MaxAttempts,
			Backoff:     o.cfg.Retry.Backoff,
		}),
	}
	return &app{
		store:   store,
		ingest:  ingest.NewEngine(store, append(ingestOpts, extra...)...),
		queries: query.NewEngine(store, o.logger),
	}, nil
}

// Close releases the store.
func (a *app) Close() error {
	return a.store.Close()
}

// rootArg returns the root path from args, falling back to the config.
func (o *rootOptions) rootArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if o.cfg.RootPath != "" {
		return o.cfg.RootPath, nil
	}
	return "", fmt.Errorf("no root path: pass one or set rootPath in dirgraph.yml")
}
