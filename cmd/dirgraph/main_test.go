package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/dirgraph/internal/ingest"
)

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// makeTree creates root/{a/{x.txt,y.exe}, b/}.
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "x.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "y.exe"), []byte("y"), 0o644))
	return root
}

func TestIngestCommand(t *testing.T) {
	root := makeTree(t)

	out, err := execute(t, "--backend", "memory", "ingest", root)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ "+root+" (0 files)")
	assert.Contains(t, out, "✓ "+filepath.Join(root, "a")+" (2 files)")
	assert.Contains(t, out, "Built graph from "+root+": 3 directories, 2 files, 0 unreadable (0 retries)")
}

func TestIngestCommand_PrintsEveryDirectory(t *testing.T) {
	root := t.TempDir()
	const subdirs = 150
	for i := 0; i < subdirs; i++ {
		require.NoError(t, os.Mkdir(filepath.Join(root, fmt.Sprintf("d%03d", i)), 0o755))
	}

	out, err := execute(t, "--backend", "memory", "ingest", root)
	require.NoError(t, err)
	assert.Equal(t, subdirs+1, strings.Count(out, "✓ "))
	assert.Contains(t, out, "✓ "+filepath.Join(root, "d149")+" (0 files)")
}

func TestPrintProgress_StopDrainsAndIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	pr := ingest.NewBlockingProgressReporter()
	stop := printProgress(&out, pr)

	pr.Emit(ingest.ProgressEvent{Path: "/r", Status: ingest.ProgressWritten, Files: 1})
	pr.Emit(ingest.ProgressEvent{Path: "/r/a", Status: ingest.ProgressSkipped, Message: "permission denied"})
	stop()
	stop()

	assert.Equal(t, "  ✓ /r (1 files)\n  ✗ /r/a skipped: permission denied\n", out.String())
}

func TestIngestCommand_JSON(t *testing.T) {
	root := makeTree(t)

	out, err := execute(t, "--backend", "memory", "ingest", "--json", root)
	require.NoError(t, err)

	var res ingest.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, root, res.Root)
	assert.Equal(t, 3, res.Directories)
	assert.Equal(t, 2, res.Files)
	assert.NotEmpty(t, res.RunID)
}

func TestIngestCommand_RootFromConfig(t *testing.T) {
	root := makeTree(t)
	cfgPath := filepath.Join(t.TempDir(), "dirgraph.yml")
	cfg := "rootPath: " + root + "\nstore:\n  backend: memory\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, err := execute(t, "--config", cfgPath, "ingest", "--quiet")
	require.NoError(t, err)
	assert.NotContains(t, out, "✓")
	assert.Contains(t, out, "Built graph from "+root)
}

func TestIngestCommand_Errors(t *testing.T) {
	_, err := execute(t, "--backend", "memory", "ingest")
	assert.ErrorContains(t, err, "no root path")

	_, err = execute(t, "--backend", "memory", "ingest", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ingest.ErrIngestionFailed)
}

func TestBackendFlag_Unknown(t *testing.T) {
	_, err := execute(t, "--backend", "sqlite", "stats")
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestQueryCommand(t *testing.T) {
	out, err := execute(t, "--backend", "memory", "query", "most-subdirs")
	require.NoError(t, err)
	assert.Equal(t, "no match\n", out)

	_, err = execute(t, "--backend", "memory", "query", "largest-file")
	assert.Error(t, err)

	_, err = execute(t, "--backend", "memory", "query")
	assert.Error(t, err)
}

func TestStatsAndResetCommands(t *testing.T) {
	out, err := execute(t, "--backend", "memory", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "directories: 0")
	assert.Contains(t, out, "edges:       0")

	out, err = execute(t, "--backend", "memory", "reset")
	require.NoError(t, err)
	assert.Equal(t, "graph reset\n", out)
}

func TestExportCommand(t *testing.T) {
	out, err := execute(t, "--backend", "memory", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")

	path := filepath.Join(t.TempDir(), "graph.json")
	_, err = execute(t, "--backend", "memory", "export", "--format", "json", "--output", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stats"`)

	_, err = execute(t, "--backend", "memory", "export", "--format", "dot")
	assert.ErrorContains(t, err, "unknown format")
}
