// Package gametest provides deterministic randomness for game tests.
package gametest

import (
	"fmt"
	"sync"
)

// Rand replays a fixed sequence of IntN results. Shuffle leaves the slice in
// its original order. It panics when the script runs out or a value does not
// fit the requested range.
type Rand struct {
	mu   sync.Mutex
	ints []int
	pos  int
}

// NewRand returns a Rand that yields ints in order.
func NewRand(ints ...int) *Rand {
	return &Rand{ints: ints}
}

// IntN implements game.Rand.
func (r *Rand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos >= len(r.ints) {
		panic("gametest: script exhausted")
	}
	v := r.ints[r.pos]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("gametest: scripted %d outside [0,%d)", v, n))
	}
	r.pos++
	return v
}

// Shuffle implements game.Rand as a no-op.
func (r *Rand) Shuffle(int, func(i, j int)) {}

// Remaining returns how many scripted values are left.
func (r *Rand) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ints) - r.pos
}
