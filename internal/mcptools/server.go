package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with all directory graph tools registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dirgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_graph",
		Description: "Mirror a directory tree into the graph. Writes each directory with its files in one transaction and reports how many files/folders could not be read.",
	}, svc.BuildGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "most_subdirectories",
		Description: "Return the directory with the most direct subdirectories.",
	}, svc.MostSubdirectories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "subdir_with_executable",
		Description: "Return a directory that has a direct subdirectory directly containing a .exe file.",
	}, svc.SubdirWithExecutable)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "count_root_descendants",
		Description: "Count the directories below the root (any directory with no parent in the graph).",
	}, svc.CountRootDescendants)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "three_empty_subdirectories",
		Description: "Return a directory with exactly three direct subdirectories that are empty.",
	}, svc.ThreeEmptySubdirectories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "same_name_files",
		Description: "Return two files with the same name (longer than four characters) where the second sits in a direct subdirectory of the first one's directory.",
	}, svc.SameNameFiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reset_graph",
		Description: "Delete every node and edge from the graph.",
	}, svc.ResetGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Return directory, file and edge counts.",
	}, svc.GraphStats)

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
}

// RunMCPServer starts an HTTP server exposing the directory graph MCP tools.
func RunMCPServer(ctx context.Context, svc *GraphService, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: NewHTTPHandler(NewGraphMCPServer(svc)),
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking
// until stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
