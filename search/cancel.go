package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/multierr"
)

// ErrTrialCancelled marks a trial interrupted by its scope's cancellation.
// Iteration runners return it (wrapped or bare) when the training step
// observed the cancel request before producing a run record.
var ErrTrialCancelled = errors.New("trial cancelled")

// CancellationToken is a cooperative cancel flag settable by a caller
// outside the loop at any time. The zero value is usable. A nil token never
// reports a request.
type CancellationToken struct {
	requested atomic.Bool
}

// Cancel sets the flag. Set-once: later calls are no-ops.
func (t *CancellationToken) Cancel() {
	t.requested.Store(true)
}

// Requested reports whether cancellation has been requested.
func (t *CancellationToken) Requested() bool {
	if t == nil {
		return false
	}
	return t.requested.Load()
}

// IsCancellation reports whether err represents graceful interruption rather
// than a real failure: the ErrTrialCancelled sentinel, context cancellation,
// or a multi-cause aggregate whose every cause is itself a cancellation.
// Training steps may fan work across workers, so a batch of cancellations is
// an expected shape; a batch with any non-cancellation cause is not.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}

	if causes := aggregateCauses(err); len(causes) > 0 {
		for _, cause := range causes {
			if !IsCancellation(cause) {
				return false
			}
		}
		return true
	}

	return errors.Is(err, ErrTrialCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// aggregateCauses returns the member errors when err is a multi-cause
// aggregate (multierr.Combine or errors.Join), nil for single errors.
// Single-error inspection must go through errors.Is instead: on a joined
// error errors.Is matches if ANY member matches, which is exactly the wrong
// semantics for cancellation classification.
func aggregateCauses(err error) []error {
	if causes := multierr.Errors(err); len(causes) > 1 {
		return causes
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if causes := joined.Unwrap(); len(causes) > 1 {
			return causes
		}
	}
	return nil
}

// EarlyFailureError is the fatal error raised when the experiment's first
// trials all fail. It aborts the experiment before the full time/iteration
// budget is burned on a systematically broken setup.
type EarlyFailureError struct {
	// Trials is the number of consecutive failed trials observed.
	Trials int
	// Cause is the last trial's captured failure.
	Cause error
}

// Error implements the error interface.
func (e *EarlyFailureError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("first %d trials failed, aborting experiment", e.Trials)
	}
	return fmt.Sprintf("first %d trials failed, aborting experiment: %v", e.Trials, e.Cause)
}

// Unwrap returns the last trial's captured failure.
func (e *EarlyFailureError) Unwrap() error { return e.Cause }
