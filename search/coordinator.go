package search

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/justapithecus/prospect/log"
)

// DefaultPropagationInterval is the poll interval at which an external
// cancellation request is forwarded to the active iteration.
const DefaultPropagationInterval = time.Second

// Coordinator stops the loop promptly when the wall-clock budget elapses or
// the caller requests cancellation, without corrupting in-flight state. It
// owns two independent timers: a one-shot budget timer and a repeating
// propagation poller. Both are best-effort — they only ever request that the
// active iteration observe its cancel flag, never terminate it.
//
// Timer callbacks run on their own goroutines and synchronize with the loop
// through the set-once budget-expired flag and a direct Cancel call into the
// active scope.
type Coordinator struct {
	token  *CancellationToken
	ledger *Ledger
	logger *log.Logger

	budgetExpired atomic.Bool

	mu          sync.Mutex
	active      *IterationScope
	budgetTimer *time.Timer

	stopPoll chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator over the given external token and
// history ledger. token may be nil when the caller never cancels.
func NewCoordinator(token *CancellationToken, ledger *Ledger, logger *log.Logger) *Coordinator {
	return &Coordinator{
		token:    token,
		ledger:   ledger,
		logger:   logger,
		stopPoll: make(chan struct{}),
	}
}

// StartBudgetTimer arms the one-shot wall-clock budget timer.
//
// budget <= 0 arms no timer and instead presets the expired flag, so exactly
// one iteration runs to completion before the time's-up condition takes
// effect at the end of that iteration.
func (c *Coordinator) StartBudgetTimer(budget time.Duration) {
	if budget <= 0 {
		c.budgetExpired.Store(true)
		return
	}

	c.mu.Lock()
	c.budgetTimer = time.AfterFunc(budget, c.onBudgetExpired)
	c.mu.Unlock()
}

func (c *Coordinator) onBudgetExpired() {
	c.budgetExpired.Store(true)

	// Interrupt in-flight training only once a successful run is banked.
	// Until then the first iteration runs to completion so the experiment
	// surfaces at least one attempted result; the flag alone stops further
	// iterations once the in-flight one is counted.
	if !c.ledger.HasSuccess() {
		c.logger.Info("experiment time budget elapsed, waiting for first model", nil)
		return
	}
	c.cancelActive("experiment time budget elapsed")
}

// StartPropagationTimer starts the repeating poller that forwards the
// external cancellation request to the active iteration. The first time the
// poller observes the token set it cancels the active scope and disarms
// itself permanently — it never re-fires or re-signals.
func (c *Coordinator) StartPropagationTimer(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPropagationInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stopPoll:
				return
			case <-ticker.C:
				if !c.token.Requested() {
					continue
				}
				c.cancelActive("external cancellation requested")
				return
			}
		}
	}()
}

// SetActive registers the iteration scope the timers may cancel. There is at
// most one active scope at any time.
func (c *Coordinator) SetActive(scope *IterationScope) {
	c.mu.Lock()
	c.active = scope
	c.mu.Unlock()
}

// ClearActive deregisters the active scope once its iteration has returned.
func (c *Coordinator) ClearActive() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

// BudgetExpired reports whether the wall-clock budget has elapsed (or was
// preset expired for a zero budget). Set-once, read at iteration boundaries.
func (c *Coordinator) BudgetExpired() bool {
	return c.budgetExpired.Load()
}

// Stop releases both timers. Idempotent. A stopped coordinator signals
// nothing further.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopPoll)
	})

	c.mu.Lock()
	if c.budgetTimer != nil {
		c.budgetTimer.Stop()
	}
	c.mu.Unlock()
}

// cancelActive requests cancellation of the currently active scope, if any.
func (c *Coordinator) cancelActive(reason string) {
	c.mu.Lock()
	scope := c.active
	c.mu.Unlock()

	if scope == nil {
		return
	}
	scope.Cancel()
	c.logger.Warn("cancelling active iteration", map[string]any{
		"iteration": scope.Iteration(),
		"reason":    reason,
	})
}
