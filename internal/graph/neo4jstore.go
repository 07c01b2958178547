package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jConfig holds the connection settings for a Neo4j server.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string // "" selects the server default
}

// Neo4jStore implements the Store interface against a Neo4j server.
// The driver owns a connection pool; sessions are short-lived and opened per
// call.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// Compile-time check that Neo4jStore satisfies Store.
var _ Store = (*Neo4jStore)(nil)

// NewNeo4jStore creates the driver and verifies that the server is reachable.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j: create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", classifyNeo4j(err))
	}
	return &Neo4jStore{driver: driver, database: cfg.Database}, nil
}

// Close releases the driver and its connection pool.
func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

// ---------- Schema setup ----------

// neo4jSchema lists the constraint and index declarations run by InitSchema.
var neo4jSchema = []string{
	"CREATE CONSTRAINT directory_path_unique IF NOT EXISTS FOR (d:Directory) REQUIRE d.path IS UNIQUE",
	"CREATE CONSTRAINT file_path_unique IF NOT EXISTS FOR (f:File) REQUIRE f.path IS UNIQUE",
	"CREATE INDEX file_extension_index IF NOT EXISTS FOR (f:File) ON (f.extension)",
}

// InitSchema declares the path constraints and the extension index.
func (s *Neo4jStore) InitSchema(ctx context.Context) error {
	for _, stmt := range neo4jSchema {
		if err := s.write(ctx, stmt); err != nil {
			return fmt.Errorf("neo4j: init schema: %w", err)
		}
	}
	return nil
}

// ---------- Write operations ----------

const (
	neo4jMergeRoot = `
		MERGE (d:Directory {path: $directory.path})
		ON CREATE SET d.fileCount = $directory.fileCount`

	neo4jMergeChild = `
		MATCH (p:Directory {path: $parentPath})
		MERGE (d:Directory {path: $directory.path})
		ON CREATE SET d.fileCount = $directory.fileCount
		MERGE (p)-[:HAS_CHILD]->(d)`

	neo4jMergeFiles = `
		MATCH (d:Directory {path: $directory.path})
		UNWIND $files AS file
		MERGE (f:File {path: file.path})
		ON CREATE SET f.name = file.name, f.extension = file.extension, f.size = file.size
		MERGE (d)-[:HAS_CHILD]->(f)`
)

// WriteDirectory runs the directory and file merges in one managed write
// transaction. Parameters are bound as structured maps.
func (s *Neo4jStore) WriteDirectory(ctx context.Context, w DirectoryWrite) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	params := directoryParams(w)
	dirQuery := neo4jMergeRoot
	if w.ParentPath != "" {
		dirQuery = neo4jMergeChild
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := runAndConsume(ctx, tx, dirQuery, params); err != nil {
			return nil, err
		}
		if len(w.Files) == 0 {
			return nil, nil
		}
		return nil, runAndConsume(ctx, tx, neo4jMergeFiles, params)
	})
	if err != nil {
		return fmt.Errorf("neo4j: write directory %s: %w", w.Directory.Path, classifyNeo4j(err))
	}
	return nil
}

// directoryParams converts a DirectoryWrite into driver parameters.
func directoryParams(w DirectoryWrite) map[string]any {
	files := make([]any, 0, len(w.Files))
	for _, f := range w.Files {
		files = append(files, map[string]any{
			"path":      f.Path,
			"name":      f.Name,
			"extension": f.Extension,
			"size":      f.Size,
		})
	}
	return map[string]any{
		"directory": map[string]any{
			"path":      w.Directory.Path,
			"fileCount": int64(w.Directory.FileCount),
		},
		"files":      files,
		"parentPath": w.ParentPath,
	}
}

// Reset deletes every node and edge.
func (s *Neo4jStore) Reset(ctx context.Context) error {
	if err := s.write(ctx, cypherReset); err != nil {
		return fmt.Errorf("neo4j: reset: %w", err)
	}
	return nil
}

// ---------- Read operations ----------

// GetDirectory retrieves a single Directory node by path, or nil if not found.
func (s *Neo4jStore) GetDirectory(ctx context.Context, path string) (*DirectoryNode, error) {
	rows, err := s.read(ctx, cypherGetDirectory, map[string]any{"path": path})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToDirectory(rows[0]), nil
}

// GetFile retrieves a single File node by path, or nil if not found.
func (s *Neo4jStore) GetFile(ctx context.Context, path string) (*FileNode, error) {
	rows, err := s.read(ctx, cypherGetFile, map[string]any{"path": path})
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
func (s *Neo4jStore) DirectoryWithMostSubdirectories(ctx context.Context) (string, bool, error) {
	return s.firstPath(ctx, cypherMostSubdirectories, nil)
}

// DirectoryWithSubdirContainingExecutable returns a directory whose direct
// subdirectory directly holds an executable file.
func (s *Neo4jStore) DirectoryWithSubdirContainingExecutable(ctx context.Context) (string, bool, error) {
	return s.firstPath(ctx, cypherSubdirWithExecutable, map[string]any{"ext": ExecutableExtension})
}

// DirectoryWithThreeEmptySubdirectories returns a directory with exactly three
// childless subdirectories.
func (s *Neo4jStore) DirectoryWithThreeEmptySubdirectories(ctx context.Context) (string, bool, error) {
	return s.firstPath(ctx, cypherThreeEmptySubdirectories, nil)
}

// CountRootDescendants counts the directories reachable from the roots.
func (s *Neo4jStore) CountRootDescendants(ctx context.Context) (int64, bool, error) {
	rows, err := s.read(ctx, cypherCountRootDescendants, nil)
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 || toInt64(rows[0][0]) == 0 {
		return 0, false, nil
	}
	return toInt64(rows[0][1]), true, nil
}

// FilesWithSameNameInNestedDirectories returns a same-name file pair, or nil.
func (s *Neo4jStore) FilesWithSameNameInNestedDirectories(ctx context.Context) (*FilePair, error) {
	rows, err := s.read(ctx, cypherSameNameFiles, map[string]any{"minLen": int64(minSameNameLength)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &FilePair{First: toString(rows[0][0]), Second: toString(rows[0][1])}, nil
}

// Stats returns node and edge counts.
func (s *Neo4jStore) Stats(ctx context.Context) (*GraphStats, error) {
	var counts [3]int
	for i, q := range []string{cypherCountDirectories, cypherCountFiles, cypherCountEdges} {
		rows, err := s.read(ctx, q, nil)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			counts[i] = int(toInt64(rows[0][0]))
		}
	}
	return &GraphStats{DirectoryCount: counts[0], FileCount: counts[1], EdgeCount: counts[2]}, nil
}

// Edges returns every HAS_CHILD edge ordered by source then target path.
func (s *Neo4jStore) Edges(ctx context.Context) ([]Edge, error) {
	dirRows, err := s.read(ctx, cypherDirectoryEdges, nil)
	if err != nil {
		return nil, err
	}
	fileRows, err := s.read(ctx, cypherFileEdges, nil)
	if err != nil {
		return nil, err
	}
	edges := append(rowsToEdges(dirRows, LabelDirectory), rowsToEdges(fileRows, LabelFile)...)
	sortEdges(edges)
	return edges, nil
}

// ---------- Internal helpers ----------

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})
}

// runAndConsume runs a statement and drains its summary.
func runAndConsume(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	result, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

// write runs one unparameterized statement in a managed write transaction.
func (s *Neo4jStore) write(ctx context.Context, cypher string) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, runAndConsume(ctx, tx, cypher, nil)
	})
	return classifyNeo4j(err)
}

// read runs a query in a managed read transaction and collects all rows.
func (s *Neo4jStore) read(ctx context.Context, cypher string, params map[string]any) ([][]any, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		var rows [][]any
		for result.Next(ctx) {
			rows = append(rows, result.Record().Values)
		}
		return rows, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: query: %w", classifyNeo4j(err))
	}
	rows, _ := out.([][]any)
	return rows, nil
}

// firstPath returns column 0 of the first row, if any.
func (s *Neo4jStore) firstPath(ctx context.Context, cypher string, params map[string]any) (string, bool, error) {
	rows, err := s.read(ctx, cypher, params)
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == nil {
		return "", false, nil
	}
	return toString(rows[0][0]), true, nil
}

// classifyNeo4j wraps failures that mean the server could not serve the
// request with ErrUnavailable and returns every other error unchanged.
func classifyNeo4j(err error) error {
	if err == nil {
		return nil
	}
	if neo4jUnavailable(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// neo4jUnavailable reports whether err is a connectivity failure or an error
// the driver itself would retry. Pool timeouts reach callers as connectivity
// errors. A TransactionExecutionLimit means the driver's own retries ran out;
// it does not unwrap, so the last attempt's error decides.
func neo4jUnavailable(err error) bool {
	var limitErr *neo4j.TransactionExecutionLimit
	if errors.As(err, &limitErr) {
		if n := len(limitErr.Errors); n > 0 {
			return neo4jUnavailable(limitErr.Errors[n-1])
		}
		return true
	}
	var connErr *neo4j.ConnectivityError
	if errors.As(err, &connErr) {
		return true
	}
	return neo4j.IsRetryable(err)
}
