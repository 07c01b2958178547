package main

import (
	"context"

	"github.com/dusk-indust/dirgraph/internal/config"
	"github.com/dusk-indust/dirgraph/internal/graph"
)

func openNeo4j(ctx context.Context, cfg config.StoreConfig) (graph.Store, error) {
	store, err := graph.NewNeo4jStore(ctx, graph.Neo4jConfig{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
