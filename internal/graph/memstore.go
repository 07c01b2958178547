package graph

import (
	"context"
	"sort"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
// It mirrors the merge-create semantics of the Cypher backends: a node is only
// assigned attributes when it is first created, and an edge exists at most once.
type MemStore struct {
	mu       sync.RWMutex
	dirs     map[string]DirectoryNode
	files    map[string]FileNode
	children map[string]map[string]struct{} // directory path -> child paths
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		dirs:     make(map[string]DirectoryNode),
		files:    make(map[string]FileNode),
		children: make(map[string]map[string]struct{}),
	}
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error { return nil }

// InitSchema is a no-op for the in-memory store; map keys enforce uniqueness.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// WriteDirectory applies the write under one lock, which makes it atomic with
// respect to readers. As with MATCH in Cypher, a write naming a parent that
// does not exist creates nothing.
func (m *MemStore) WriteDirectory(_ context.Context, w DirectoryWrite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := w.Directory
	if w.ParentPath != "" {
		if _, ok := m.dirs[w.ParentPath]; !ok {
			return nil
		}
	}
	if _, ok := m.dirs[dir.Path]; !ok {
		m.dirs[dir.Path] = dir
	}
	if w.ParentPath != "" {
		m.link(w.ParentPath, dir.Path)
	}
	for _, f := range w.Files {
		if _, ok := m.files[f.Path]; !ok {
			m.files[f.Path] = f
		}
		m.link(dir.Path, f.Path)
	}
	return nil
}

// link adds a parent -> child edge if absent. Callers hold mu.
func (m *MemStore) link(parent, child string) {
	set, ok := m.children[parent]
	if !ok {
		set = make(map[string]struct{})
		m.children[parent] = set
	}
	set[child] = struct{}{}
}

// Reset drops all nodes and edges.
func (m *MemStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs = make(map[string]DirectoryNode)
	m.files = make(map[string]FileNode)
	m.children = make(map[string]map[string]struct{})
	return nil
}

// GetDirectory returns the directory node for path, or nil if not found.
func (m *MemStore) GetDirectory(_ context.Context, path string) (*DirectoryNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.dirs[path]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// GetFile returns the file node for path, or nil if not found.
func (m *MemStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// DirectoryWithMostSubdirectories returns the directory with the most direct
// child directories, breaking ties by path.
func (m *MemStore) DirectoryWithMostSubdirectories(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	best, bestCount := "", 0
	for _, d := range m.sortedDirs() {
		n := len(m.subdirs(d))
		if n > bestCount {
			best, bestCount = d, n
		}
	}
	return best, bestCount > 0, nil
}

// DirectoryWithSubdirContainingExecutable returns the first directory (by
// path) with a direct subdirectory that directly holds an ".exe" file.
func (m *MemStore) DirectoryWithSubdirContainingExecutable(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.sortedDirs() {
		for _, s := range m.subdirs(d) {
			for _, f := range m.childFiles(s) {
				if f.Extension == ExecutableExtension {
					return d, true, nil
				}
			}
		}
	}
	return "", false, nil
}

// CountRootDescendants counts distinct directories reachable from every
// directory that has no incoming edge.
func (m *MemStore) CountRootDescendants(_ context.Context) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hasParent := make(map[string]bool)
	for _, set := range m.children {
		for c := range set {
			hasParent[c] = true
		}
	}

	var queue []string
	for d := range m.dirs {
		if !hasParent[d] {
			queue = append(queue, d)
		}
	}
	if len(queue) == 0 {
		return 0, false, nil
	}

	seen := make(map[string]bool)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range m.subdirs(cur) {
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
	return int64(len(seen)), true, nil
}

// DirectoryWithThreeEmptySubdirectories returns the first directory with
// exactly three direct subdirectories that have no children.
func (m *MemStore) DirectoryWithThreeEmptySubdirectories(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.sortedDirs() {
		empties := 0
		for _, s := range m.subdirs(d) {
			if len(m.children[s]) == 0 {
				empties++
			}
		}
		if empties == 3 {
			return d, true, nil
		}
	}
	return "", false, nil
}

// FilesWithSameNameInNestedDirectories returns the lowest-ordered pair of
// same-name files where the second sits one directory below the first.
func (m *MemStore) FilesWithSameNameInNestedDirectories(_ context.Context) (*FilePair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *FilePair
	for _, da := range m.sortedDirs() {
		for _, a := range m.childFiles(da) {
			if len([]rune(a.Name)) <= minSameNameLength {
				continue
			}
			for _, db := range m.subdirs(da) {
				for _, b := range m.childFiles(db) {
					if b.Name != a.Name {
						continue
					}
					p := FilePair{First: a.Path, Second: b.Path}
					if best == nil || p.First < best.First || (p.First == best.First && p.Second < best.Second) {
						best = &p
					}
				}
			}
		}
	}
	return best, nil
}

// Stats returns node and edge counts.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	edges := 0
	for _, set := range m.children {
		edges += len(set)
	}
	return &GraphStats{
		DirectoryCount: len(m.dirs),
		FileCount:      len(m.files),
		EdgeCount:      edges,
	}, nil
}

// Edges returns every edge ordered by source then target path.
func (m *MemStore) Edges(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var edges []Edge
	for parent, set := range m.children {
		for child := range set {
			label := LabelFile
			if _, ok := m.dirs[child]; ok {
				label = LabelDirectory
			}
			edges = append(edges, Edge{SourceID: parent, TargetID: child, Kind: EdgeKindHasChild, TargetLabel: label})
		}
	}
	sortEdges(edges)
	return edges, nil
}

// ---------- Internal helpers (callers hold mu) ----------

func (m *MemStore) sortedDirs() []string {
	out := make([]string, 0, len(m.dirs))
	for d := range m.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// subdirs returns the direct child directories of path, sorted.
func (m *MemStore) subdirs(path string) []string {
	var out []string
	for c := range m.children[path] {
		if _, ok := m.dirs[c]; ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// childFiles returns the direct child files of path, sorted by path.
func (m *MemStore) childFiles(path string) []FileNode {
	var out []FileNode
	for c := range m.children[path] {
		if f, ok := m.files[c]; ok {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
