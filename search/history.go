package search

import (
	"sync"

	"github.com/justapithecus/prospect/types"
)

// Ledger is the append-only ordered history of completed iterations.
// Insertion order is iteration order; records are never reordered, pruned,
// or mutated after append. Len equals the number of iterations that reached
// completion (successful or failed) — iterations aborted before a RunRecord
// was produced are never counted.
//
// Appends happen on the loop's own goroutine between iterations; the budget
// timer reads HasSuccess from its timer goroutine, hence the RWMutex.
type Ledger struct {
	mu      sync.RWMutex
	records []types.RunRecord
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append appends a completed-iteration record.
func (l *Ledger) Append(record types.RunRecord) {
	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()
}

// Len returns the number of completed iterations.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Snapshot returns a copy of the history in iteration order. The copy is the
// oracle's consultation view; mutating it cannot corrupt the ledger.
func (l *Ledger) Snapshot() []types.RunRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make([]types.RunRecord, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

// HasSuccess reports whether at least one recorded run succeeded.
func (l *Ledger) HasSuccess() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, record := range l.records {
		if record.Succeeded {
			return true
		}
	}
	return false
}

// AllFailed reports whether every recorded run failed. Vacuously false for
// an empty ledger.
func (l *Ledger) AllFailed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.records) == 0 {
		return false
	}
	for _, record := range l.records {
		if record.Succeeded {
			return false
		}
	}
	return true
}

// Last returns the most recently appended record.
func (l *Ledger) Last() (types.RunRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.records) == 0 {
		return types.RunRecord{}, false
	}
	return l.records[len(l.records)-1], true
}
