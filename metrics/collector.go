// Package metrics provides per-experiment metrics collection.
//
// The Collector accumulates counters during a single experiment. It is a leaf
// package with no internal dependencies. All increment methods are
// nil-receiver safe so callers can run without a collector attached.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all experiment metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Iteration lifecycle
	IterationsStarted   int64 `json:"iterations_started" msgpack:"iterations_started"`
	IterationsSucceeded int64 `json:"iterations_succeeded" msgpack:"iterations_succeeded"`
	IterationsFailed    int64 `json:"iterations_failed" msgpack:"iterations_failed"`
	TrialsCancelled     int64 `json:"trials_cancelled" msgpack:"trials_cancelled"`

	// Search
	PipelinesProposed int64   `json:"pipelines_proposed" msgpack:"pipelines_proposed"`
	BestScore         float64 `json:"best_score" msgpack:"best_score"`
	BestIteration     int     `json:"best_iteration" msgpack:"best_iteration"`

	// Progress callback
	CallbackFailures int64 `json:"callback_failures" msgpack:"callback_failures"`

	// Dimensions (informational, set at construction)
	Task         string `json:"task" msgpack:"task"`
	ExperimentID string `json:"experiment_id" msgpack:"experiment_id"`
}

// Collector accumulates metrics during a single experiment.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	iterationsStarted   int64
	iterationsSucceeded int64
	iterationsFailed    int64
	trialsCancelled     int64

	pipelinesProposed int64
	bestScore         float64
	bestIteration     int
	hasBest           bool
	maximize          bool

	callbackFailures int64

	task         string
	experimentID string
}

// NewCollector creates a Collector with dimension labels. maximize selects
// the direction used when tracking the best observed score.
func NewCollector(task, experimentID string, maximize bool) *Collector {
	return &Collector{
		task:         task,
		experimentID: experimentID,
		maximize:     maximize,
	}
}

// IncIterationStarted records an iteration start.
func (c *Collector) IncIterationStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.iterationsStarted++
	c.mu.Unlock()
}

// IncIterationSucceeded records a successful iteration.
func (c *Collector) IncIterationSucceeded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.iterationsSucceeded++
	c.mu.Unlock()
}

// IncIterationFailed records a failed iteration.
func (c *Collector) IncIterationFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.iterationsFailed++
	c.mu.Unlock()
}

// IncTrialCancelled records an in-flight trial interrupted by cancellation.
func (c *Collector) IncTrialCancelled() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.trialsCancelled++
	c.mu.Unlock()
}

// IncPipelineProposed records one oracle proposal.
func (c *Collector) IncPipelineProposed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.pipelinesProposed++
	c.mu.Unlock()
}

// IncCallbackFailure records a progress callback that raised an error.
func (c *Collector) IncCallbackFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.callbackFailures++
	c.mu.Unlock()
}

// ObserveScore records the score of a successful iteration and updates the
// best score/iteration under the experiment's optimization direction.
func (c *Collector) ObserveScore(iteration int, score float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	better := !c.hasBest ||
		(c.maximize && score > c.bestScore) ||
		(!c.maximize && score < c.bestScore)
	if better {
		c.bestScore = score
		c.bestIteration = iteration
		c.hasBest = true
	}
}

// Snapshot returns an immutable point-in-time view of all metrics.
// The Collector can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		IterationsStarted:   c.iterationsStarted,
		IterationsSucceeded: c.iterationsSucceeded,
		IterationsFailed:    c.iterationsFailed,
		TrialsCancelled:     c.trialsCancelled,

		PipelinesProposed: c.pipelinesProposed,
		BestScore:         c.bestScore,
		BestIteration:     c.bestIteration,

		CallbackFailures: c.callbackFailures,

		Task:         c.task,
		ExperimentID: c.experimentID,
	}
}
