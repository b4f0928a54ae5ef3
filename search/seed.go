package search

import "math/rand/v2"

// SeedStream derives one pseudo-random child seed per iteration from a
// parent seed. Children are consumed strictly in iteration order, so two
// experiments constructed with the same parent seed observe the same child
// sequence. An unseeded stream (nil parent) yields no seeds at all and the
// iterations run non-deterministically.
type SeedStream struct {
	rng *rand.Rand
}

// NewSeedStream creates a seed stream. parent == nil means unseeded.
func NewSeedStream(parent *int64) *SeedStream {
	if parent == nil {
		return &SeedStream{}
	}
	return &SeedStream{
		rng: rand.New(rand.NewPCG(uint64(*parent), 0)),
	}
}

// Next returns the next child seed in iteration order. ok is false for
// unseeded streams.
func (s *SeedStream) Next() (seed int64, ok bool) {
	if s.rng == nil {
		return 0, false
	}
	return s.rng.Int64(), true
}
