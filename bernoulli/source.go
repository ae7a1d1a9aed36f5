package bernoulli

import (
	"log"
	"math/rand"
)

// A Source produces uniform random draws in [0, 1). Runs take their
// randomness from a Source rather than the process-wide generator so that
// tests can replay a fixed draw sequence.
type Source interface {
	Draw() float64
}

// Flip performs one Bernoulli trial against the given bias, using one draw
// from the source. It reports a head when draw < bias, so bias 0 never
// yields a head and bias 1 always does.
func Flip(src Source, bias float64) bool {
	return src.Draw() < bias
}

type randSource struct {
	rng *rand.Rand
}

// NewRandSource returns a Source backed by math/rand with the given seed.
// Two sources created with the same seed produce the same draw sequence.
func NewRandSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Draw() float64 {
	return s.rng.Float64()
}

// A SequenceSource replays a fixed list of draws. It is mainly useful in
// tests that need a fully determined outcome sequence.
type SequenceSource struct {
	Draws []float64

	next int
}

// Draw returns the next draw in the sequence.
func (s *SequenceSource) Draw() float64 {
	if s.next >= len(s.Draws) {
		log.Panic("sequence source exhausted")
	}

	d := s.Draws[s.next]
	s.next++

	return d
}
