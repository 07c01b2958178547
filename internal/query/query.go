// Package query answers the fixed set of structural questions over an
// ingested directory graph. Every operation is one read round trip.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dusk-indust/dirgraph/internal/graph"
)

var tracer = otel.Tracer("dirgraph.query")

// ErrUnknownKind is returned by Run for a query name it does not know.
var ErrUnknownKind = errors.New("query: unknown kind")

// Answer is a single directory path, or no match.
type Answer struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

func (a Answer) String() string {
	if !a.Found {
		return "no match"
	}
	return a.Path
}

// Count is a number, or no match. A found zero is a real answer.
type Count struct {
	Found bool  `json:"found"`
	Value int64 `json:"value"`
}

func (c Count) String() string {
	if !c.Found {
		return "no match"
	}
	return strconv.FormatInt(c.Value, 10)
}

// Pair is two file paths, or no match.
type Pair struct {
	Found  bool   `json:"found"`
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
}

func (p Pair) String() string {
	if !p.Found {
		return "no match"
	}
	return p.First + " and " + p.Second
}

// Kind names a query for command-line and tool dispatch.
type Kind string

const (
	KindMostSubdirectories   Kind = "most-subdirs"
	KindSubdirWithExecutable Kind = "exe-subdir"
	KindCountDescendants     Kind = "count-descendants"
	KindThreeEmptySubdirs    Kind = "three-empty"
	KindSameNameFiles        Kind = "same-name"
)

// Kinds lists every query in menu order.
func Kinds() []Kind {
	return []Kind{
		KindMostSubdirectories,
		KindSubdirWithExecutable,
		KindCountDescendants,
		KindThreeEmptySubdirs,
		KindSameNameFiles,
	}
}

// Engine runs read-only queries against a store.
type Engine struct {
	store  graph.Store
	logger *slog.Logger
}

// NewEngine creates an Engine over store. A nil logger means slog.Default().
func NewEngine(store graph.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

// Run dispatches to the query named by k.
func (e *Engine) Run(ctx context.Context, k Kind) (fmt.Stringer, error) {
	switch k {
	case KindMostSubdirectories:
		return e.DirectoryWithMostSubdirectories(ctx)
	case KindSubdirWithExecutable:
		return e.DirectoryWithSubdirContainingExecutable(ctx)
	case KindCountDescendants:
		return e.CountRootDescendants(ctx)
	case KindThreeEmptySubdirs:
		return e.DirectoryWithThreeEmptySubdirectories(ctx)
	case KindSameNameFiles:
		return e.FilesWithSameNameInNestedDirectories(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

// DirectoryWithMostSubdirectories returns the directory with the most direct
// subdirectories. Ties go to the lowest path.
func (e *Engine) DirectoryWithMostSubdirectories(ctx context.Context) (Answer, error) {
	return e.path(ctx, KindMostSubdirectories, e.store.DirectoryWithMostSubdirectories)
}

// DirectoryWithSubdirContainingExecutable returns a directory one of whose
// direct subdirectories directly holds a ".exe" file.
func (e *Engine) DirectoryWithSubdirContainingExecutable(ctx context.Context) (Answer, error) {
	return e.path(ctx, KindSubdirWithExecutable, e.store.DirectoryWithSubdirContainingExecutable)
}

// DirectoryWithThreeEmptySubdirectories returns a directory with exactly
// three direct subdirectories that have no children.
func (e *Engine) DirectoryWithThreeEmptySubdirectories(ctx context.Context) (Answer, error) {
	return e.path(ctx, KindThreeEmptySubdirs, e.store.DirectoryWithThreeEmptySubdirectories)
}

// CountRootDescendants counts the directories below the root. Any directory
// without an incoming edge is a root; with several roots the count covers
// all of them.
func (e *Engine) CountRootDescendants(ctx context.Context) (Count, error) {
	ctx, span := e.start(ctx, KindCountDescendants)
	defer span.End()

	n, found, err := e.store.CountRootDescendants(ctx)
	if err != nil {
		return Count{}, e.fail(span, KindCountDescendants, err)
	}
	span.SetAttributes(attribute.Bool("query.found", found), attribute.Int64("query.count", n))
	e.logger.Debug("query answered", "query", KindCountDescendants, "found", found, "count", n)
	return Count{Found: found, Value: n}, nil
}

// FilesWithSameNameInNestedDirectories returns two files with the same name,
// longer than four characters, where the second one's directory is a direct
// subdirectory of the first one's.
func (e *Engine) FilesWithSameNameInNestedDirectories(ctx context.Context) (Pair, error) {
	ctx, span := e.start(ctx, KindSameNameFiles)
	defer span.End()

	p, err := e.store.FilesWithSameNameInNestedDirectories(ctx)
	if err != nil {
		return Pair{}, e.fail(span, KindSameNameFiles, err)
	}
	span.SetAttributes(attribute.Bool("query.found", p != nil))
	if p == nil {
		return Pair{}, nil
	}
	e.logger.Debug("query answered", "query", KindSameNameFiles, "first", p.First, "second", p.Second)
	return Pair{Found: true, First: p.First, Second: p.Second}, nil
}

// Stats returns node and edge counts.
func (e *Engine) Stats(ctx context.Context) (*graph.GraphStats, error) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: stats: %w", err)
	}
	return stats, nil
}

func (e *Engine) path(ctx context.Context, k Kind, fn func(context.Context) (string, bool, error)) (Answer, error) {
	ctx, span := e.start(ctx, k)
	defer span.End()

	p, found, err := fn(ctx)
	if err != nil {
		return Answer{}, e.fail(span, k, err)
	}
	span.SetAttributes(attribute.Bool("query.found", found))
	e.logger.Debug("query answered", "query", k, "found", found, "path", p)
	if !found {
		return Answer{}, nil
	}
	return Answer{Found: true, Path: p}, nil
}

func (e *Engine) start(ctx context.Context, k Kind) (context.Context, trace.Span) {
	return tracer.Start(ctx, "query."+string(k), trace.WithAttributes(attribute.String("query.kind", string(k))))
}

func (e *Engine) fail(span trace.Span, k Kind, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.logger.Error("query failed", "query", k, "err", err)
	return fmt.Errorf("query: %s: %w", k, err)
}
