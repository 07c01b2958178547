package mcptools

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/dirgraph/internal/graph"
	"github.com/dusk-indust/dirgraph/internal/ingest"
	"github.com/dusk-indust/dirgraph/internal/query"
)

// GraphService holds the store and engines used by MCP tool handlers.
type GraphService struct {
	store   graph.Store
	ingest  *ingest.Engine
	queries *query.Engine

	// mu keeps builds and resets from overlapping; reads are not blocked.
	mu sync.Mutex
}

// NewGraphService creates a GraphService over one shared store.
func NewGraphService(store graph.Store, ing *ingest.Engine, queries *query.Engine) *GraphService {
	return &GraphService{store: store, ingest: ing, queries: queries}
}

// BuildGraph ingests the tree at rootPath and returns the run summary with
// the resulting graph statistics.
func (s *GraphService) BuildGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildGraphInput,
) (*mcp.CallToolResult, BuildGraphOutput, error) {
	if input.RootPath == "" {
		return nil, BuildGraphOutput{}, fmt.Errorf("rootPath is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ingest.Ingest(ctx, input.RootPath)
	if err != nil {
		return nil, BuildGraphOutput{}, err
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("get stats: %w", err)
	}
	return nil, BuildGraphOutput{Run: *res, Stats: *stats}, nil
}

// MostSubdirectories returns the directory with the most direct subdirectories.
func (s *GraphService) MostSubdirectories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ QueryInput,
) (*mcp.CallToolResult, DirectoryOutput, error) {
	a, err := s.queries.DirectoryWithMostSubdirectories(ctx)
	if err != nil {
		return nil, DirectoryOutput{}, err
	}
	return nil, DirectoryOutput{Found: a.Found, Path: a.Path}, nil
}

// SubdirWithExecutable returns a directory whose subdirectory holds an .exe file.
func (s *GraphService) SubdirWithExecutable(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ QueryInput,
) (*mcp.CallToolResult, DirectoryOutput, error) {
	a, err := s.queries.DirectoryWithSubdirContainingExecutable(ctx)
	if err != nil {
		return nil, DirectoryOutput{}, err
	}
	return nil, DirectoryOutput{Found: a.Found, Path: a.Path}, nil
}

// CountRootDescendants counts the directories below the root.
func (s *GraphService) CountRootDescendants(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ QueryInput,
) (*mcp.CallToolResult, CountOutput, error) {
	c, err := s.queries.CountRootDescendants(ctx)
	if err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{Found: c.Found, Count: c.Value}, nil
}

// ThreeEmptySubdirectories returns a directory with exactly three empty subdirectories.
func (s *GraphService) ThreeEmptySubdirectories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ QueryInput,
) (*mcp.CallToolResult, DirectoryOutput, error) {
	a, err := s.queries.DirectoryWithThreeEmptySubdirectories(ctx)
	if err != nil {
		return nil, DirectoryOutput{}, err
	}
	return nil, DirectoryOutput{Found: a.Found, Path: a.Path}, nil
}

// SameNameFiles returns two same-name files in a directory and its subdirectory.
func (s *GraphService) SameNameFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ QueryInput,
) (*mcp.CallToolResult, FilePairOutput, error) {
	p, err := s.queries.FilesWithSameNameInNestedDirectories(ctx)
	if err != nil {
		return nil, FilePairOutput{}, err
	}
	return nil, FilePairOutput{Found: p.Found, First: p.First, Second: p.Second}, nil
}

// ResetGraph deletes every node and edge.
func (s *GraphService) ResetGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ResetGraphInput,
) (*mcp.CallToolResult, ResetGraphOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return nil, ResetGraphOutput{}, fmt.Errorf("reset: %w", err)
	}
	return nil, ResetGraphOutput{Reset: true}, nil
}

// GraphStats returns node and edge counts.
func (s *GraphService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ QueryInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	stats, err := s.queries.Stats(ctx)
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}
	return nil, GraphStatsOutput{Stats: *stats}, nil
}
