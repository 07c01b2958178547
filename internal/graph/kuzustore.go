//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
// A single connection is shared; mu serializes statements so that a manual
// transaction is never interleaved with another caller's statements.
type KuzuStore struct {
	mu   sync.Mutex
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given path. KuzuDB creates the leaf itself for new databases, so only the
// parent directory is created here.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(dbPath string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}

// ---------- Schema setup ----------

// kuzuDDL defines the declarations executed by InitSchema. Node tables must
// precede the relationship table. The primary keys are the path uniqueness
// constraints; KuzuDB has no secondary property indexes, so File.extension is
// left unindexed.
var kuzuDDL = []string{
	`CREATE NODE TABLE IF NOT EXISTS Directory(
		path STRING,
		fileCount INT64,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		name STRING,
		extension STRING,
		size INT64,
		PRIMARY KEY(path)
	)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_CHILD(FROM Directory TO Directory, FROM Directory TO File)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stmt := range kuzuDDL {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

const (
	kuzuMergeRoot = `
		MERGE (d:Directory {path: $path})
		ON CREATE SET d.fileCount = $fileCount`

	kuzuMergeChild = `
		MATCH (p:Directory {path: $parent})
		MERGE (d:Directory {path: $path})
		ON CREATE SET d.fileCount = $fileCount
		MERGE (p)-[:HAS_CHILD]->(d)`

	kuzuMergeFile = `
		MATCH (d:Directory {path: $dir})
		MERGE (f:File {path: $path})
		ON CREATE SET f.name = $name, f.extension = $ext, f.size = $size
		MERGE (d)-[:HAS_CHILD]->(f)`
)

// WriteDirectory writes the directory, its parent edge and its files inside
// one explicit transaction, rolling back on the first failure.
func (s *KuzuStore) WriteDirectory(_ context.Context, w DirectoryWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.run("BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("kuzu: begin: %w", err)
	}
	if err := s.writeDirectory(w); err != nil {
		if rbErr := s.run("ROLLBACK"); rbErr != nil {
			return fmt.Errorf("kuzu: rollback after %v: %w", err, rbErr)
		}
		return err
	}
	if err := s.run("COMMIT"); err != nil {
		return fmt.Errorf("kuzu: commit: %w", err)
	}
	return nil
}

func (s *KuzuStore) writeDirectory(w DirectoryWrite) error {
	dir := w.Directory
	if w.ParentPath == "" {
		if err := s.exec(kuzuMergeRoot, map[string]any{
			"path":      dir.Path,
			"fileCount": int64(dir.FileCount),
		}); err != nil {
			return fmt.Errorf("kuzu: merge directory %s: %w", dir.Path, err)
		}
	} else {
		if err := s.exec(kuzuMergeChild, map[string]any{
			"parent":    w.ParentPath,
			"path":      dir.Path,
			"fileCount": int64(dir.FileCount),
		}); err != nil {
			return fmt.Errorf("kuzu: merge directory %s: %w", dir.Path, err)
		}
	}

	for _, f := range w.Files {
		if err := s.exec(kuzuMergeFile, map[string]any{
			"dir":  dir.Path,
			"path": f.Path,
			"name": f.Name,
			"ext":  f.Extension,
			"size": f.Size,
		}); err != nil {
			return fmt.Errorf("kuzu: merge file %s: %w", f.Path, err)
		}
	}
	return nil
}

// Reset deletes every node and, with them, every edge.
func (s *KuzuStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.run(cypherReset); err != nil {
		return fmt.Errorf("kuzu: reset: %w", err)
	}
	return nil
}

// ---------- Read operations ----------

// GetDirectory retrieves a single Directory node by path, or nil if not found.
func (s *KuzuStore) GetDirectory(_ context.Context, path string) (*DirectoryNode, error) {
	rows, err := s.query(cypherGetDirectory, map[string]any{"path": path})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToDirectory(rows[0]), nil
}

// GetFile retrieves a single File node by path, or nil if not found.
func (s *KuzuStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	rows, err := s.query(cypherGetFile, map[string]any{"path": path})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToFile(rows[0]), nil
}

// DirectoryWithMostSubdirectories returns the directory with the most direct
// child directories.
func (s *KuzuStore) DirectoryWithMostSubdirectories(_ context.Context) (string, bool, error) {
	return s.firstPath(cypherMostSubdirectories, nil)
}

// DirectoryWithSubdirContainingExecutable returns a directory whose direct
// subdirectory directly holds an executable file.
func (s *KuzuStore) DirectoryWithSubdirContainingExecutable(_ context.Context) (string, bool, error) {
	return s.firstPath(cypherSubdirWithExecutable, map[string]any{"ext": ExecutableExtension})
}

// DirectoryWithThreeEmptySubdirectories returns a directory with exactly three
// childless subdirectories.
func (s *KuzuStore) DirectoryWithThreeEmptySubdirectories(_ context.Context) (string, bool, error) {
	return s.firstPath(cypherThreeEmptySubdirectories, nil)
}

// CountRootDescendants counts the directories reachable from the roots.
// KuzuDB caps variable-length patterns at 30 hops, so the count uses the
// depth-free form instead of a traversal.
func (s *KuzuStore) CountRootDescendants(_ context.Context) (int64, bool, error) {
	roots, err := s.count(cypherCountRoots)
	if err != nil {
		return 0, false, err
	}
	if roots == 0 {
		return 0, false, nil
	}
	n, err := s.count(cypherCountChildDirectories)
	if err != nil {
		return 0, false, err
	}
	return int64(n), true, nil
}

// FilesWithSameNameInNestedDirectories returns a same-name file pair, or nil.
func (s *KuzuStore) FilesWithSameNameInNestedDirectories(_ context.Context) (*FilePair, error) {
	rows, err := s.query(cypherSameNameFiles, map[string]any{"minLen": int64(minSameNameLength)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &FilePair{First: toString(rows[0][0]), Second: toString(rows[0][1])}, nil
}

// ---------- Stats ----------

// Stats returns node and edge counts.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	dirs, err := s.count(cypherCountDirectories)
	if err != nil {
		return nil, err
	}
	files, err := s.count(cypherCountFiles)
	if err != nil {
		return nil, err
	}
	edges, err := s.count(cypherCountEdges)
	if err != nil {
		return nil, err
	}
	return &GraphStats{DirectoryCount: dirs, FileCount: files, EdgeCount: edges}, nil
}

// Edges returns every HAS_CHILD edge ordered by source then target path.
func (s *KuzuStore) Edges(_ context.Context) ([]Edge, error) {
	dirRows, err := s.query(cypherDirectoryEdges, nil)
	if err != nil {
		return nil, err
	}
	fileRows, err := s.query(cypherFileEdges, nil)
	if err != nil {
		return nil, err
	}
	edges := append(rowsToEdges(dirRows, LabelDirectory), rowsToEdges(fileRows, LabelFile)...)
	sortEdges(edges)
	return edges, nil
}

// ---------- Internal helpers ----------

// run executes an unparameterized statement and discards its result.
// Callers hold mu.
func (s *KuzuStore) run(cypher string) error {
	res, err := s.conn.Query(cypher)
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// exec runs a parameterized Cypher statement that produces no result rows.
// Callers hold mu.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// firstPath returns column 0 of the first row, if any.
func (s *KuzuStore) firstPath(cypher string, params map[string]any) (string, bool, error) {
	rows, err := s.query(cypher, params)
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == nil {
		return "", false, nil
	}
	return toString(rows[0][0]), true, nil
}

// count runs a single-value count query.
func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return int(toInt64(rows[0][0])), nil
}
