package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/dirgraph/internal/graph"
)

func seededStore(t *testing.T) graph.Store {
	t.Helper()
	ctx := context.Background()
	s := graph.NewMemStore()
	require.NoError(t, s.WriteDirectory(ctx, graph.DirectoryWrite{
		Directory: graph.DirectoryNode{Path: "/srv/root", FileCount: 1},
		Files:     []graph.FileNode{{Path: "/srv/root/setup.exe", Name: "setup.exe", Extension: ".exe", Size: 4}},
	}))
	require.NoError(t, s.WriteDirectory(ctx, graph.DirectoryWrite{
		Directory:  graph.DirectoryNode{Path: "/srv/root/lib"},
		ParentPath: "/srv/root",
	}))
	return s
}

func TestGenerateMermaid(t *testing.T) {
	out, err := GenerateMermaid(context.Background(), seededStore(t))
	require.NoError(t, err)

	want := strings.Join([]string{
		"graph TD",
		`  N0["/srv/root"]`,
		`  N1["root/lib"]`,
		`  N2("root/setup.exe")`,
		"  N0 --> N1",
		"  N0 --> N2",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestGenerateMermaid_Empty(t *testing.T) {
	out, err := GenerateMermaid(context.Background(), graph.NewMemStore())
	require.NoError(t, err)
	assert.Equal(t, "graph TD\n", out)
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "/a", shortPath("/a"))
	assert.Equal(t, "/a/b", shortPath("/a/b"))
	assert.Equal(t, "b/c", shortPath("/a/b/c"))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "say #quot;hi#quot;", escape(`say "hi"`))
}

func TestExportGraph(t *testing.T) {
	exp, err := ExportGraph(context.Background(), seededStore(t))
	require.NoError(t, err)

	assert.Equal(t, graph.GraphStats{DirectoryCount: 2, FileCount: 1, EdgeCount: 2}, exp.Stats)
	require.Len(t, exp.Edges, 2)
	assert.NotEmpty(t, exp.ExportedAt)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exp))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "stats")
	edges := decoded["edges"].([]any)
	first := edges[0].(map[string]any)
	assert.Equal(t, "/srv/root", first["sourceId"])
	assert.Equal(t, "Directory", first["targetLabel"])
}

func TestExportGraph_EmptyHasEdgeArray(t *testing.T) {
	exp, err := ExportGraph(context.Background(), graph.NewMemStore())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exp))
	assert.Contains(t, buf.String(), `"edges": []`)
}
