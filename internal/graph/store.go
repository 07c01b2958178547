package graph

import (
	"context"
	"errors"
	"io"
)

// ErrUnavailable marks a store failure caused by the database being
// temporarily unreachable. Writes are merge-creates, so callers may retry the
// same unit of work after seeing it.
var ErrUnavailable = errors.New("graph: store unavailable")

// Store is the interface for the directory graph backend.
// Implementations: KuzuStore (embedded), Neo4jStore (server), MemStore (testing).
type Store interface {
	io.Closer

	// InitSchema declares uniqueness constraints and indexes. Safe to rerun.
	InitSchema(ctx context.Context) error

	// WriteDirectory merge-creates the directory, the edge from its parent and
	// every file with its edge, all in one transaction. Attributes are only set
	// on nodes the call creates.
	WriteDirectory(ctx context.Context, w DirectoryWrite) error

	// Reset deletes every node and edge.
	Reset(ctx context.Context) error

	// Point lookups by identity key; nil when absent.
	GetDirectory(ctx context.Context, path string) (*DirectoryNode, error)
	GetFile(ctx context.Context, path string) (*FileNode, error)

	// Structural queries. The bool result reports whether anything matched.
	DirectoryWithMostSubdirectories(ctx context.Context) (string, bool, error)
	DirectoryWithSubdirContainingExecutable(ctx context.Context) (string, bool, error)
	CountRootDescendants(ctx context.Context) (int64, bool, error)
	DirectoryWithThreeEmptySubdirectories(ctx context.Context) (string, bool, error)
	FilesWithSameNameInNestedDirectories(ctx context.Context) (*FilePair, error)

	// Stats and enumeration.
	Stats(ctx context.Context) (*GraphStats, error)
	Edges(ctx context.Context) ([]Edge, error)
}

// IsUnavailable reports whether err is, or wraps, ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// minSameNameLength is the exclusive lower bound on file name length for the
// same-name query.
const minSameNameLength = 4
