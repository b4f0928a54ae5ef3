package search

import "testing"

func TestSeedStream_Deterministic(t *testing.T) {
	parent := int64(1234)

	first := NewSeedStream(&parent)
	second := NewSeedStream(&parent)

	for i := 0; i < 10; i++ {
		a, aok := first.Next()
		b, bok := second.Next()
		if !aok || !bok {
			t.Fatalf("seeded stream returned ok=false at iteration %d", i)
		}
		if a != b {
			t.Fatalf("iteration %d: seeds diverged (%d vs %d)", i, a, b)
		}
	}
}

func TestSeedStream_DifferentParentsDiverge(t *testing.T) {
	one, two := int64(1), int64(2)

	first := NewSeedStream(&one)
	second := NewSeedStream(&two)

	same := true
	for i := 0; i < 5; i++ {
		a, _ := first.Next()
		b, _ := second.Next()
		if a != b {
			same = false
		}
	}
	if same {
		t.Error("different parent seeds produced identical child sequences")
	}
}

func TestSeedStream_Unseeded(t *testing.T) {
	stream := NewSeedStream(nil)
	for i := 0; i < 3; i++ {
		if seed, ok := stream.Next(); ok || seed != 0 {
			t.Fatalf("unseeded stream yielded a seed: %d, %v", seed, ok)
		}
	}
}

func TestSeedStream_ChildrenVary(t *testing.T) {
	parent := int64(7)
	stream := NewSeedStream(&parent)

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		seed, _ := stream.Next()
		seen[seed] = true
	}
	if len(seen) < 2 {
		t.Error("seed stream produced a constant sequence")
	}
}
