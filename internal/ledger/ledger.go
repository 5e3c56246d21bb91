// Package ledger owns every read-modify-write of a user's profile.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"casino-bot/internal/achievement"
	"casino-bot/internal/model"
	"casino-bot/internal/pkg/lock"
)

// ErrPersistence wraps any failure of the underlying store.
var ErrPersistence = errors.New("persistence failure")

// Store is the profile storage the ledger reads and writes.
type Store interface {
	GetOrCreate(ctx context.Context, userID int64) (*model.Profile, error)
	Save(ctx context.Context, p *model.Profile, entries []*model.Transaction) error
	Recent(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error)
}

// Mutation changes a profile in place and optionally returns the journal
// entry describing the change. Returning an error aborts the update.
type Mutation func(p *model.Profile) (*model.Transaction, error)

// Change is the result of a committed update.
type Change struct {
	Profile   *model.Profile
	Entry     *model.Transaction
	NewTitles []string
}

// Ledger serializes profile updates per user.
type Ledger struct {
	store Store
	locks *lock.UserLock
}

// New creates a Ledger over store.
func New(store Store, locks *lock.UserLock) *Ledger {
	if locks == nil {
		locks = lock.NewUserLock()
	}
	return &Ledger{store: store, locks: locks}
}

// FetchProfile returns the profile for userID, creating it with defaults on
// first access.
func (l *Ledger) FetchProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	p, err := l.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return p, nil
}

// ApplyUpdate writes every mutable field of p and appends entries.
func (l *Ledger) ApplyUpdate(ctx context.Context, p *model.Profile, entries ...*model.Transaction) error {
	if err := l.store.Save(ctx, p, entries); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Update runs fn against a fresh copy of the user's profile while holding the
// user's lock, evaluates achievements and writes the result once. Nothing is
// written when fn fails.
func (l *Ledger) Update(ctx context.Context, userID int64, fn Mutation) (*Change, error) {
	if err := l.locks.LockContext(ctx, userID); err != nil {
		return nil, err
	}
	defer l.locks.Unlock(userID)

	p, err := l.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry, err := fn(p)
	if err != nil {
		return nil, err
	}

	earned := achievement.Evaluate(p)

	var entries []*model.Transaction
	if entry != nil {
		entries = append(entries, entry)
	}
	if err := l.ApplyUpdate(ctx, p, entries...); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to persist profile")
		return nil, err
	}

	if len(earned) > 0 {
		log.Info().Int64("user_id", userID).Strs("titles", earned).Msg("Titles unlocked")
	}

	return &Change{Profile: p, Entry: entry, NewTitles: earned}, nil
}

// Recent returns the user's latest journal rows, newest first.
func (l *Ledger) Recent(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	txs, err := l.store.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return txs, nil
}
