package graph

import (
	"fmt"
	"sort"
)

// ---------- Type coercion helpers ----------
// Both drivers return typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// rowToDirectory converts a 2-column row (path, fileCount) into a DirectoryNode.
func rowToDirectory(r []any) *DirectoryNode {
	return &DirectoryNode{
		Path:      toString(r[0]),
		FileCount: int(toInt64(r[1])),
	}
}

// rowToFile converts a 4-column row (path, name, extension, size) into a FileNode.
func rowToFile(r []any) *FileNode {
	return &FileNode{
		Path:      toString(r[0]),
		Name:      toString(r[1]),
		Extension: toString(r[2]),
		Size:      toInt64(r[3]),
	}
}

// rowsToEdges converts (source, target) rows into HAS_CHILD edges whose
// targets carry the given label.
func rowsToEdges(rows [][]any, target Label) []Edge {
	edges := make([]Edge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, Edge{
			SourceID:    toString(r[0]),
			TargetID:    toString(r[1]),
			Kind:        EdgeKindHasChild,
			TargetLabel: target,
		})
	}
	return edges
}

// sortEdges orders edges by source then target path.
func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		return edges[i].TargetID < edges[j].TargetID
	})
}
