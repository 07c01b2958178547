// Package ingest mirrors a filesystem subtree into a graph.Store, one atomic
// write per directory.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dusk-indust/dirgraph/internal/entity"
	"github.com/dusk-indust/dirgraph/internal/graph"
)

var tracer = otel.Tracer("dirgraph.ingest")

// ErrIngestionFailed means the run could not start: the root path is unusable
// or the schema could not be initialized. Nothing was walked.
var ErrIngestionFailed = errors.New("ingest: ingestion failed")

// Result summarizes one ingestion run.
type Result struct {
	RunID       string        `json:"runId"`
	Root        string        `json:"root"`
	Directories int           `json:"directories"`
	Files       int           `json:"files"`
	Unreadable  int           `json:"unreadable"`
	Retries     int           `json:"retries"`
	Duration    time.Duration `json:"duration"`
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithFS replaces the host filesystem.
func WithFS(fsys FS) Option {
	return func(e *Engine) { e.fs = fsys }
}

// WithRetryPolicy bounds or delays retries after the store is unavailable.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(e *Engine) { e.retry = p }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the Prometheus collectors to update.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithProgress emits a ProgressEvent per directory outcome to pr.
func WithProgress(pr *ProgressReporter) Option {
	return func(e *Engine) { e.progress = pr }
}

// Engine walks directory trees into a store. Runs are sequential: one
// directory is listed and written before the next is visited.
type Engine struct {
	store    graph.Store
	fs       FS
	retry    RetryPolicy
	logger   *slog.Logger
	metrics  *Metrics
	progress *ProgressReporter
}

// NewEngine creates an Engine writing to store.
func NewEngine(store graph.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		fs:     OSFS{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}
	return e
}

// visit is one pending unit of work: a directory and the parent it hangs from.
type visit struct {
	path   string
	parent string
}

// outcome is what a committed visit contributes to the run.
type outcome struct {
	files      int
	subdirs    []string
	unreadable int
}

// Ingest walks rootPath depth-first in pre-order and writes every directory it
// can read. Access-denied and unexpected per-directory failures are counted in
// Result.Unreadable and skip that subtree; store unavailability repeats the
// same visit according to the retry policy.
//
// A run that cannot start returns an error wrapping ErrIngestionFailed. If ctx
// is canceled mid-run the partial Result is returned with the context error.
func (e *Engine) Ingest(ctx context.Context, rootPath string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := e.logger.With("run", res.RunID)

	ctx, span := tracer.Start(ctx, "ingest.Run",
		trace.WithAttributes(
			attribute.String("ingest.run_id", res.RunID),
			attribute.String("ingest.root", rootPath),
		),
	)
	defer span.End()

	root, err := e.resolveRoot(rootPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid root")
		log.Error("ingest could not start", "root", rootPath, "err", err)
		return nil, fmt.Errorf("%w: root %q: %w", ErrIngestionFailed, rootPath, err)
	}
	res.Root = root

	if err := e.store.InitSchema(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema initialization failed")
		log.Error("ingest could not start", "root", root, "err", err)
		return nil, fmt.Errorf("%w: init schema: %w", ErrIngestionFailed, err)
	}

	log.Info("ingest started", "root", root)

	stack := []visit{{path: root}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return e.abort(span, res, start, err)
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		subdirs, err := e.visit(ctx, v, res, log)
		if err != nil {
			return e.abort(span, res, start, err)
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, visit{path: subdirs[i], parent: v.path})
		}
	}

	res.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("ingest.directories", res.Directories),
		attribute.Int("ingest.files", res.Files),
		attribute.Int("ingest.unreadable", res.Unreadable),
		attribute.Int("ingest.retries", res.Retries),
	)
	span.SetStatus(codes.Ok, "")
	log.Info("ingest finished",
		"directories", res.Directories,
		"files", res.Files,
		"unreadable", res.Unreadable,
		"retries", res.Retries,
		"duration", res.Duration,
	)
	e.emit(ProgressEvent{
		RunID:   res.RunID,
		Path:    root,
		Status:  ProgressDone,
		Files:   res.Files,
		Message: fmt.Sprintf("%d directories, %d files, %d unreadable", res.Directories, res.Files, res.Unreadable),
	})
	return res, nil
}

func (e *Engine) abort(span trace.Span, res *Result, start time.Time, err error) (*Result, error) {
	res.Duration = time.Since(start)
	span.RecordError(err)
	span.SetStatus(codes.Error, "canceled")
	return res, fmt.Errorf("ingest: %w", err)
}

func (e *Engine) resolveRoot(rootPath string) (string, error) {
	root, err := entity.NormalizePath(rootPath)
	if err != nil {
		return "", err
	}
	info, err := e.fs.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}
	return root, nil
}

// visit processes one directory, repeating it while the store is unavailable
// and the policy allows. It returns the subdirectories to descend into, nil
// when the directory was skipped. Only context errors are returned.
func (e *Engine) visit(ctx context.Context, v visit, res *Result, log *slog.Logger) ([]string, error) {
	for attempt := 1; ; attempt++ {
		out, err := e.visitOnce(ctx, v)
		if err == nil {
			res.Directories++
			res.Files += out.files
			res.Unreadable += out.unreadable
			e.metrics.directories.Inc()
			e.metrics.files.Add(float64(out.files))
			e.metrics.unreadable.Add(float64(out.unreadable))
			if out.unreadable > 0 {
				log.Warn("unreadable entries skipped", "path", v.path, "count", out.unreadable)
			}
			e.emit(ProgressEvent{RunID: res.RunID, Path: v.path, Status: ProgressWritten, Files: out.files})
			return out.subdirs, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		switch {
		case graph.IsUnavailable(err):
			if e.retry.exhausted(attempt) {
				log.Error("store unavailable, giving up on directory", "path", v.path, "attempts", attempt, "err", err)
				e.skip(res, v, err)
				return nil, nil
			}
			res.Retries++
			e.metrics.retries.Inc()
			log.Warn("store unavailable, retrying directory", "path", v.path, "attempt", attempt, "err", err)
			e.emit(ProgressEvent{RunID: res.RunID, Path: v.path, Status: ProgressRetrying, Message: err.Error()})
			if err := e.retry.wait(ctx); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrPermission):
			log.Warn("access denied, skipping subtree", "path", v.path, "err", err)
			e.skip(res, v, err)
			return nil, nil
		default:
			log.Warn("directory failed, skipping subtree", "path", v.path, "err", err)
			e.skip(res, v, err)
			return nil, nil
		}
	}
}

// visitOnce lists v, builds its records and writes them in one transaction.
func (e *Engine) visitOnce(ctx context.Context, v visit) (outcome, error) {
	entries, err := e.fs.ReadDir(v.path)
	if err != nil {
		return outcome{}, err
	}
	files, subdirs, unreadable := entity.SplitEntries(v.path, entries)
	w := graph.DirectoryWrite{
		Directory:  entity.BuildDirectory(v.path, files),
		Files:      files,
		ParentPath: v.parent,
	}
	if err := e.write(ctx, w); err != nil {
		return outcome{}, err
	}
	return outcome{files: len(files), subdirs: subdirs, unreadable: unreadable}, nil
}

func (e *Engine) write(ctx context.Context, w graph.DirectoryWrite) error {
	ctx, span := tracer.Start(ctx, "ingest.WriteDirectory",
		trace.WithAttributes(
			attribute.String("dir.path", w.Directory.Path),
			attribute.Int("dir.files", len(w.Files)),
		),
	)
	defer span.End()

	start := time.Now()
	err := e.store.WriteDirectory(ctx, w)
	label := "ok"
	switch {
	case err == nil:
	case graph.IsUnavailable(err):
		label = "unavailable"
	default:
		label = "error"
	}
	e.metrics.writeLatency.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (e *Engine) skip(res *Result, v visit, err error) {
	res.Unreadable++
	e.metrics.unreadable.Inc()
	e.emit(ProgressEvent{RunID: res.RunID, Path: v.path, Status: ProgressSkipped, Message: err.Error()})
}

func (e *Engine) emit(ev ProgressEvent) {
	if e.progress != nil {
		e.progress.Emit(ev)
	}
}
