package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"casino-bot/internal/model"
)

// Store is the PostgreSQL profile store used by the ledger.
type Store struct {
	pool     *pgxpool.Pool
	profiles *ProfileRepository
	txs      *TransactionRepository
}

// NewStore creates a Store on pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		profiles: NewProfileRepository(pool),
		txs:      NewTransactionRepository(pool),
	}
}

// GetOrCreate returns the stored profile, creating it with defaults if absent.
func (s *Store) GetOrCreate(ctx context.Context, userID int64) (*model.Profile, error) {
	p, _, err := s.profiles.GetOrCreate(ctx, userID)
	return p, err
}

// Save writes the full profile and appends entries in one database transaction.
func (s *Store) Save(ctx context.Context, p *model.Profile, entries []*model.Transaction) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := NewProfileRepository(tx).Update(ctx, p); err != nil {
			return err
		}
		txs := NewTransactionRepository(tx)
		for _, e := range entries {
			if err := txs.Create(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save profile %d: %w", p.UserID, err)
	}
	return nil
}

// Recent returns up to limit journal rows for userID, newest first.
func (s *Store) Recent(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	return s.txs.GetByUserID(ctx, userID, limit)
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
