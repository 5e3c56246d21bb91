package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/achievement"
	"casino-bot/internal/ledger/ledgertest"
	"casino-bot/internal/model"
)

func TestFetchProfileCreatesDefaults(t *testing.T) {
	l := New(ledgertest.NewMemStore(), nil)

	p, err := l.FetchProfile(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMoney, p.Money)
	assert.Empty(t, p.Titles)
}

func TestUpdateWritesProfileAndEntry(t *testing.T) {
	store := ledgertest.NewMemStore()
	l := New(store, nil)
	ctx := context.Background()

	change, err := l.Update(ctx, 1, func(p *model.Profile) (*model.Transaction, error) {
		p.Money += 50
		p.GambleCount++
		return model.NewTransaction(p.UserID, 50, model.TxTypeCoinflip, "heads"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(550), change.Profile.Money)
	assert.Empty(t, change.NewTitles)

	assert.Equal(t, int64(550), store.Get(1).Money)
	recent, err := l.Recent(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(50), recent[0].Amount)
}

func TestUpdatePersistsNewTitles(t *testing.T) {
	store := ledgertest.NewMemStore()
	seed := model.NewProfile(1)
	seed.GambleCount = 19
	store.Put(seed)

	l := New(store, nil)
	change, err := l.Update(context.Background(), 1, func(p *model.Profile) (*model.Transaction, error) {
		p.GambleCount++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{achievement.BeginnersLuck}, change.NewTitles)
	assert.Equal(t, []string{achievement.BeginnersLuck}, store.Get(1).Titles)
	assert.Equal(t, 1, store.Saves())
}

func TestUpdateAbortsOnMutationError(t *testing.T) {
	store := ledgertest.NewMemStore()
	l := New(store, nil)
	boom := errors.New("rejected")

	_, err := l.Update(context.Background(), 1, func(p *model.Profile) (*model.Transaction, error) {
		p.Money = 0
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Saves())
	assert.Equal(t, model.DefaultMoney, store.Get(1).Money)
}

func TestStoreFailuresArePersistenceErrors(t *testing.T) {
	store := ledgertest.NewMemStore()
	store.SaveErr = errors.New("disk full")
	l := New(store, nil)

	_, err := l.Update(context.Background(), 1, func(p *model.Profile) (*model.Transaction, error) {
		p.Money++
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, store.SaveErr)

	store.GetErr = errors.New("offline")
	_, err = l.FetchProfile(context.Background(), 2)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestUpdateCancelledContext(t *testing.T) {
	l := New(ledgertest.NewMemStore(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Update(ctx, 1, func(p *model.Profile) (*model.Transaction, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestConcurrentUpdatesAreNotLost checks that concurrent updates for one user
// all land: the final balance equals the initial balance plus every delta.
func TestConcurrentUpdatesAreNotLost(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := ledgertest.NewMemStore()
		l := New(store, nil)
		deltas := rapid.SliceOfN(rapid.Int64Range(-100, 100), 1, 40).Draw(rt, "deltas")

		var wg sync.WaitGroup
		for _, d := range deltas {
			wg.Add(1)
			go func(d int64) {
				defer wg.Done()
				_, _ = l.Update(context.Background(), 1, func(p *model.Profile) (*model.Transaction, error) {
					p.Money += d
					p.GambleCount++
					return nil, nil
				})
			}(d)
		}
		wg.Wait()

		want := model.DefaultMoney
		for _, d := range deltas {
			want += d
		}
		got := store.Get(1)
		if got.Money != want {
			rt.Fatalf("money = %d, want %d", got.Money, want)
		}
		if got.GambleCount != int64(len(deltas)) {
			rt.Fatalf("gamble_count = %d, want %d", got.GambleCount, len(deltas))
		}
	})
}
