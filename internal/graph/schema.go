package graph

// --- Enums ---

// Label names a node table in the directory graph.
type Label string

const (
	LabelDirectory Label = "Directory"
	LabelFile      Label = "File"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	// EdgeKindHasChild links a directory to a direct subdirectory or file.
	EdgeKindHasChild EdgeKind = "HAS_CHILD"
)

// ExecutableExtension is the extension matched by the executable query.
// It is compared exactly, on every platform.
const ExecutableExtension = ".exe"

// --- Models ---

// DirectoryNode represents a directory in the graph. Path is the identity key.
type DirectoryNode struct {
	Path      string `json:"path"`
	FileCount int    `json:"fileCount"`
}

// FileNode represents a regular (non-directory) entry. Path is the identity key.
type FileNode struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Extension string `json:"extension"` // leading dot included, "" if none
	Size      int64  `json:"size"`
}

// DirectoryWrite is the unit of one write transaction: a directory, its
// immediate files, and the edge from its parent. ParentPath is empty for the
// traversal root.
type DirectoryWrite struct {
	Directory  DirectoryNode `json:"directory"`
	Files      []FileNode    `json:"files"`
	ParentPath string        `json:"parentPath,omitempty"`
}

// Edge represents a relationship between two nodes, identified by path.
// TargetLabel tells directories from files, since leaves of either kind look
// the same from the edge list alone.
type Edge struct {
	SourceID    string   `json:"sourceId"`
	TargetID    string   `json:"targetId"`
	Kind        EdgeKind `json:"kind"`
	TargetLabel Label    `json:"targetLabel"`
}

// FilePair is two files with the same name where the second lives in a direct
// subdirectory of the first file's directory.
type FilePair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// GraphStats summarizes the directory graph.
type GraphStats struct {
	DirectoryCount int `json:"directoryCount"`
	FileCount      int `json:"fileCount"`
	EdgeCount      int `json:"edgeCount"`
}
