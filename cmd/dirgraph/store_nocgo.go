//go:build !cgo

package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/dirgraph/internal/config"
	"github.com/dusk-indust/dirgraph/internal/graph"
)

func openStore(ctx context.Context, cfg config.StoreConfig) (graph.Store, error) {
	switch cfg.Backend {
	case config.BackendKuzu:
		return nil, fmt.Errorf("kuzu backend requires a cgo build")
	case config.BackendNeo4j:
		return openNeo4j(ctx, cfg)
	case config.BackendMemory:
		return graph.NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
