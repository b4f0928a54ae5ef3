package search

import (
	"testing"

	"github.com/justapithecus/prospect/types"
)

func TestLedger_AppendOrder(t *testing.T) {
	ledger := NewLedger()
	for _, id := range []string{"p-1", "p-2", "p-3"} {
		ledger.Append(types.RunRecord{Pipeline: types.Pipeline{ID: id}, Succeeded: true})
	}

	if ledger.Len() != 3 {
		t.Fatalf("Len = %d, want 3", ledger.Len())
	}
	snapshot := ledger.Snapshot()
	for i, want := range []string{"p-1", "p-2", "p-3"} {
		if snapshot[i].Pipeline.ID != want {
			t.Errorf("record %d: pipeline = %s, want %s", i, snapshot[i].Pipeline.ID, want)
		}
	}
}

func TestLedger_SnapshotIsACopy(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(types.RunRecord{Pipeline: types.Pipeline{ID: "p-1"}})

	snapshot := ledger.Snapshot()
	snapshot[0].Pipeline.ID = "mutated"

	if ledger.Snapshot()[0].Pipeline.ID != "p-1" {
		t.Error("mutating a snapshot corrupted the ledger")
	}
}

func TestLedger_HasSuccess(t *testing.T) {
	ledger := NewLedger()
	if ledger.HasSuccess() {
		t.Error("empty ledger reports success")
	}

	ledger.Append(types.RunRecord{Succeeded: false})
	if ledger.HasSuccess() {
		t.Error("all-failed ledger reports success")
	}

	ledger.Append(types.RunRecord{Succeeded: true})
	if !ledger.HasSuccess() {
		t.Error("ledger with a successful run must report success")
	}
}

func TestLedger_AllFailed(t *testing.T) {
	ledger := NewLedger()
	if ledger.AllFailed() {
		t.Error("empty ledger must not report all-failed")
	}

	ledger.Append(types.RunRecord{Succeeded: false})
	ledger.Append(types.RunRecord{Succeeded: false})
	if !ledger.AllFailed() {
		t.Error("all-failed ledger must report all-failed")
	}

	ledger.Append(types.RunRecord{Succeeded: true})
	if ledger.AllFailed() {
		t.Error("ledger with a success must not report all-failed")
	}
}

func TestLedger_Last(t *testing.T) {
	ledger := NewLedger()
	if _, ok := ledger.Last(); ok {
		t.Error("empty ledger returned a last record")
	}

	ledger.Append(types.RunRecord{Pipeline: types.Pipeline{ID: "p-1"}})
	ledger.Append(types.RunRecord{Pipeline: types.Pipeline{ID: "p-2"}})

	last, ok := ledger.Last()
	if !ok || last.Pipeline.ID != "p-2" {
		t.Errorf("Last = %v, %v", last, ok)
	}
}
