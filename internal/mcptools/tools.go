package mcptools

import (
	"github.com/dusk-indust/dirgraph/internal/graph"
	"github.com/dusk-indust/dirgraph/internal/ingest"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// BuildGraphInput is the input for the build_graph MCP tool.
type BuildGraphInput struct {
	RootPath string `json:"rootPath" jsonschema:"the absolute path of the directory tree to mirror into the graph"`
}

// BuildGraphOutput is the result of the build_graph MCP tool.
type BuildGraphOutput struct {
	Run   ingest.Result    `json:"run"`
	Stats graph.GraphStats `json:"stats"`
}

// QueryInput is the input for the argument-free query tools.
type QueryInput struct{}

// DirectoryOutput is the result of a query answering with one directory.
type DirectoryOutput struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// CountOutput is the result of the count_root_descendants MCP tool.
type CountOutput struct {
	Found bool  `json:"found"`
	Count int64 `json:"count"`
}

// FilePairOutput is the result of the same_name_files MCP tool.
type FilePairOutput struct {
	Found  bool   `json:"found"`
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
}

// ResetGraphInput is the input for the reset_graph MCP tool.
type ResetGraphInput struct{}

// ResetGraphOutput is the result of the reset_graph MCP tool.
type ResetGraphOutput struct {
	Reset bool `json:"reset"`
}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	Stats graph.GraphStats `json:"stats"`
}
