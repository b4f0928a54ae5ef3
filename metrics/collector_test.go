package metrics

import (
	"sync"
	"testing"
)

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector

	// None of these may panic.
	c.IncIterationStarted()
	c.IncIterationSucceeded()
	c.IncIterationFailed()
	c.IncTrialCancelled()
	c.IncPipelineProposed()
	c.IncCallbackFailure()
	c.ObserveScore(1, 0.5)

	snap := c.Snapshot()
	if snap.IterationsStarted != 0 {
		t.Errorf("nil collector snapshot should be zero, got %+v", snap)
	}
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("regression", "exp-1", true)

	c.IncIterationStarted()
	c.IncIterationStarted()
	c.IncIterationSucceeded()
	c.IncIterationFailed()
	c.IncPipelineProposed()
	c.IncCallbackFailure()
	c.IncTrialCancelled()

	snap := c.Snapshot()
	if snap.IterationsStarted != 2 {
		t.Errorf("IterationsStarted = %d, want 2", snap.IterationsStarted)
	}
	if snap.IterationsSucceeded != 1 || snap.IterationsFailed != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 1/1", snap.IterationsSucceeded, snap.IterationsFailed)
	}
	if snap.TrialsCancelled != 1 || snap.PipelinesProposed != 1 || snap.CallbackFailures != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Task != "regression" || snap.ExperimentID != "exp-1" {
		t.Errorf("dimensions lost: %+v", snap)
	}
}

func TestCollector_ObserveScore_Maximize(t *testing.T) {
	c := NewCollector("regression", "exp-max", true)

	c.ObserveScore(1, 0.5)
	c.ObserveScore(2, 0.9)
	c.ObserveScore(3, 0.7)

	snap := c.Snapshot()
	if snap.BestScore != 0.9 || snap.BestIteration != 2 {
		t.Errorf("best = %.2f@%d, want 0.90@2", snap.BestScore, snap.BestIteration)
	}
}

func TestCollector_ObserveScore_Minimize(t *testing.T) {
	c := NewCollector("regression", "exp-min", false)

	c.ObserveScore(1, 0.5)
	c.ObserveScore(2, 0.2)
	c.ObserveScore(3, 0.7)

	snap := c.Snapshot()
	if snap.BestScore != 0.2 || snap.BestIteration != 2 {
		t.Errorf("best = %.2f@%d, want 0.20@2", snap.BestScore, snap.BestIteration)
	}
}

func TestCollector_ObserveScore_FirstAlwaysBest(t *testing.T) {
	// A negative first score must still register under maximize.
	c := NewCollector("regression", "exp-first", true)
	c.ObserveScore(1, -3.5)

	snap := c.Snapshot()
	if snap.BestScore != -3.5 || snap.BestIteration != 1 {
		t.Errorf("best = %.2f@%d, want -3.50@1", snap.BestScore, snap.BestIteration)
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("regression", "exp-conc", true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncIterationStarted()
		}()
	}
	wg.Wait()

	if got := c.Snapshot().IterationsStarted; got != 50 {
		t.Errorf("IterationsStarted = %d, want 50", got)
	}
}
