package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var errBadAction = errors.New("bad action")

// countdown ends after n "fire" actions and rejects anything else.
type countdown struct {
	n       int
	applied atomic.Int32
}

func (c *countdown) Kind() Kind { return KindRussianRoulette }

func (c *countdown) Apply(a Action) (*Outcome, error) {
	if a != ActionFire {
		return nil, errBadAction
	}
	n := int(c.applied.Add(1))
	return &Outcome{Terminal: n >= c.n, Snapshot: n}, nil
}

func TestTryStartExclusive(t *testing.T) {
	r := NewRegistry()

	h, err := r.TryStart(1, &countdown{n: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, int64(1), h.UserID)
	assert.Equal(t, KindRussianRoulette, h.Kind)

	_, err = r.TryStart(1, &countdown{n: 3})
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, 1, r.Len())

	active, ok := r.Active(1)
	require.True(t, ok)
	assert.Equal(t, h.ID, active.ID)

	_, err = r.TryStart(2, &countdown{n: 3})
	assert.NoError(t, err)
	assert.Equal(t, 2, r.Len())
}

func TestStepLifecycle(t *testing.T) {
	r := NewRegistry()
	h, err := r.TryStart(1, &countdown{n: 2})
	require.NoError(t, err)

	step, err := r.Step(1, h.ID, ActionFire)
	require.NoError(t, err)
	assert.False(t, step.Outcome.Terminal)
	assert.Equal(t, h.ID, step.ID)

	step, err = r.Step(1, h.ID, ActionFire)
	require.NoError(t, err)
	assert.True(t, step.Outcome.Terminal)

	_, ok := r.Active(1)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	_, err = r.Step(1, h.ID, ActionFire)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStepErrors(t *testing.T) {
	r := NewRegistry()
	h, err := r.TryStart(1, &countdown{n: 2})
	require.NoError(t, err)

	_, err = r.Step(1, "missing", ActionFire)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = r.Step(2, h.ID, ActionFire)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = r.Step(1, h.ID, ActionHit)
	assert.ErrorIs(t, err, errBadAction)
	_, ok := r.Active(1)
	assert.True(t, ok, "rejected action must keep the session")
}

func TestExpireIgnoresStaleID(t *testing.T) {
	r := NewRegistry()
	old, err := r.TryStart(1, &countdown{n: 1})
	require.NoError(t, err)
	_, err = r.Step(1, old.ID, ActionFire)
	require.NoError(t, err)

	current, err := r.TryStart(1, &countdown{n: 5})
	require.NoError(t, err)

	assert.False(t, r.Expire(1, old.ID))
	_, ok := r.Active(1)
	assert.True(t, ok)

	assert.True(t, r.Expire(1, current.ID))
	assert.False(t, r.Expire(1, current.ID))
	assert.Equal(t, 0, r.Len())

	_, err = r.Step(1, current.ID, ActionFire)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestConcurrentStartsOneWinner(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := NewRegistry()
		n := rapid.IntRange(2, 20).Draw(rt, "starters")

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := r.TryStart(7, &countdown{n: 1}); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		if wins.Load() != 1 {
			rt.Fatalf("%d sessions started, want 1", wins.Load())
		}
	})
}

// TestConcurrentStepsTerminateOnce checks that double taps on the final
// action settle exactly once.
func TestConcurrentStepsTerminateOnce(t *testing.T) {
	r := NewRegistry()
	m := &countdown{n: 1}
	h, err := r.TryStart(1, m)
	require.NoError(t, err)

	var terminal atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			step, err := r.Step(1, h.ID, ActionFire)
			if err == nil && step.Outcome.Terminal {
				terminal.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), terminal.Load())
	assert.Equal(t, int32(1), m.applied.Load())
}

func TestSettlementIsZero(t *testing.T) {
	assert.True(t, Settlement{}.IsZero())
	assert.False(t, Settlement{Delta: -1}.IsZero())
	assert.False(t, Settlement{Gamble: true}.IsZero())
}
