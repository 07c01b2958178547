package ingest

import "fmt"

// ProgressStatus describes what happened to one directory during a run.
type ProgressStatus int

const (
	ProgressWritten ProgressStatus = iota
	ProgressRetrying
	ProgressSkipped
	ProgressDone
)

// ProgressEvent is emitted once per directory outcome and once at the end of
// the run.
type ProgressEvent struct {
	RunID   string
	Path    string
	Status  ProgressStatus
	Files   int
	Message string
}

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch       chan ProgressEvent
	blocking bool
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// NewBlockingProgressReporter creates a ProgressReporter whose Emit waits for
// buffer space instead of dropping events. The subscriber must keep draining
// until Close.
func NewBlockingProgressReporter() *ProgressReporter {
	pr := NewProgressReporter()
	pr.blocking = true
	return pr
}

// Emit sends a progress event. A non-blocking reporter silently drops the
// event if the channel is full.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	if pr.blocking {
		pr.ch <- event
		return
	}
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressWritten:
		return fmt.Sprintf("  ✓ %s (%d files)", event.Path, event.Files)
	case ProgressRetrying:
		return fmt.Sprintf("  ↻ %s: %s", event.Path, event.Message)
	case ProgressSkipped:
		return fmt.Sprintf("  ✗ %s skipped: %s", event.Path, event.Message)
	case ProgressDone:
		return fmt.Sprintf("[%s] %s", event.RunID, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Path)
	}
}
