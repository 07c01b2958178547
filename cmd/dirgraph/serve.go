package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/dirgraph/internal/ingest"
	"github.com/dusk-indust/dirgraph/internal/mcptools"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr        string
		metricsAddr string
		stdio       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the graph tools over MCP",
		Long: `Serve the build, query, stats and reset tools over the Model Context
Protocol, on streamable HTTP or on stdio. Prometheus metrics are served on a
separate listener.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = opts.cfg.Serve.Addr
			}
			if metricsAddr == "" {
				metricsAddr = opts.cfg.Serve.MetricsAddr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			a, err := opts.open(cmd.Context(), ingest.WithMetrics(ingest.NewMetrics(reg)))
			if err != nil {
				return err
			}
			defer a.Close()

			svc := mcptools.NewGraphService(a.store, a.ingest, a.queries)

			// The metrics listener stops once MCP serving ends.
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return serveMetrics(ctx, reg, metricsAddr)
			})
			g.Go(func() error {
				defer cancel()
				if stdio {
					opts.logger.Info("serving MCP on stdio")
					return mcptools.RunMCPServerStdio(ctx, mcptools.NewGraphMCPServer(svc))
				}
				opts.logger.Info("serving MCP", "addr", addr)
				return mcptools.RunMCPServer(ctx, svc, addr)
			})
			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "MCP listen address (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "metrics listen address (default from config)")
	cmd.Flags().BoolVar(&stdio, "stdio", false, "serve MCP on stdin/stdout instead of HTTP")
	return cmd
}

// serveMetrics serves /metrics until ctx is done.
func serveMetrics(ctx context.Context, reg *prometheus.Registry, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
