// Package search implements the prospect experiment control loop: iteration
// scheduling under a wall-clock budget, per-iteration execution isolation,
// cooperative cancellation propagation, deterministic child seeding, and the
// failure/termination policy.
package search

import (
	"context"

	"github.com/justapithecus/prospect/log"
)

// IterationScope is the isolated execution state for one iteration: its own
// cancellation, its own child seed, and its own log relay. A scope lives for
// exactly one iteration and never shares cancellation with the parent
// experiment or with any other iteration.
type IterationScope struct {
	iteration int
	seed      int64
	seeded    bool
	relay     *log.Relay

	ctx    context.Context
	cancel context.CancelFunc
}

// newIterationScope creates a fresh scope for the given 1-based iteration.
// The scope's context is rooted at context.Background deliberately: budget
// expiry and external cancellation reach it only through Cancel.
func newIterationScope(iteration int, seed int64, seeded bool, logger *log.Logger) *IterationScope {
	ctx, cancel := context.WithCancel(context.Background())
	return &IterationScope{
		iteration: iteration,
		seed:      seed,
		seeded:    seeded,
		relay:     log.NewRelay(logger, iteration),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Iteration returns the 1-based iteration index this scope belongs to.
func (s *IterationScope) Iteration() int { return s.iteration }

// Seed returns the child seed for this iteration and whether one was
// assigned. Unseeded experiments produce unseeded scopes.
func (s *IterationScope) Seed() (int64, bool) { return s.seed, s.seeded }

// Context returns the scope's cancellation context. Trainers pass it to
// blocking work and observe it at their yield points.
func (s *IterationScope) Context() context.Context { return s.ctx }

// Cancel requests cooperative cancellation of the scope. Idempotent, safe to
// call from timer goroutines. It never forcibly terminates in-flight work.
func (s *IterationScope) Cancel() { s.cancel() }

// Cancelled reports whether cancellation has been requested.
func (s *IterationScope) Cancelled() bool { return s.ctx.Err() != nil }

// Log forwards a message through the scope's relay to the experiment logger.
func (s *IterationScope) Log(severity log.Severity, format string, args ...any) {
	s.relay.Log(severity, format, args...)
}

// Relay returns the scope's log relay.
func (s *IterationScope) Relay() *log.Relay { return s.relay }

// discard releases the scope's context resources once its iteration has
// returned. The scope is discarded, not forcibly destroyed: work that kept a
// reference simply observes cancellation.
func (s *IterationScope) discard() { s.cancel() }
