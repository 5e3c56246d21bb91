package game

import "math/rand/v2"

// Rand is the randomness source games draw from.
type Rand interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// OrDefault returns r, or the process-wide generator when r is nil.
func OrDefault(r Rand) Rand {
	if r == nil {
		return globalRand{}
	}
	return r
}
