package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/dirgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a graph store.
// Directories are boxes, files are rounded; HAS_CHILD edges become arrows.
// A graph without edges renders as an empty diagram.
func GenerateMermaid(ctx context.Context, store graph.Store) (string, error) {
	edges, err := store.Edges(ctx)
	if err != nil {
		return "", fmt.Errorf("get edges: %w", err)
	}

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	var order []string
	labels := make(map[string]graph.Label)
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", len(order))
		nodeIDs[path] = id
		order = append(order, path)
		return id
	}
	for _, e := range edges {
		if _, ok := labels[e.SourceID]; !ok {
			labels[e.SourceID] = graph.LabelDirectory
		}
		labels[e.TargetID] = e.TargetLabel
		getID(e.SourceID)
		getID(e.TargetID)
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, path := range order {
		label := escape(shortPath(path))
		if labels[path] == graph.LabelFile {
			sb.WriteString(fmt.Sprintf("  %s(\"%s\")\n", nodeIDs[path], label))
		} else {
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", nodeIDs[path], label))
		}
	}

	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", nodeIDs[e.SourceID], nodeIDs[e.TargetID]))
	}

	return sb.String(), nil
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(filepath.ToSlash(path), "/"), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

// escape replaces double quotes, which would end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
