package ingest

import (
	"context"
	"time"
)

// RetryPolicy governs how a directory visit is repeated after the store
// reports itself unavailable. The zero value retries forever with no delay.
type RetryPolicy struct {
	// MaxAttempts caps the total attempts per directory, the first included.
	// Zero or negative means unbounded.
	MaxAttempts int

	// Backoff is the fixed pause between attempts.
	Backoff time.Duration
}

// exhausted reports whether attempt (1-based) was the last one allowed.
func (p RetryPolicy) exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}

// wait pauses for the backoff, returning early with the context error.
func (p RetryPolicy) wait(ctx context.Context) error {
	if p.Backoff <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
