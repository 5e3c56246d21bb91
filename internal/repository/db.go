// Package repository provides the PostgreSQL-backed profile store.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx so repositories
// can run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// migrations are applied in order; every statement is idempotent.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "users table",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				user_id      BIGINT PRIMARY KEY,
				money        BIGINT NOT NULL DEFAULT 500,
				affection    BIGINT NOT NULL DEFAULT 0,
				streak       INT    NOT NULL DEFAULT 0,
				last_daily   DATE,
				titles       TEXT[] NOT NULL DEFAULT '{}',
				gamble_count BIGINT NOT NULL DEFAULT 0,
				total_logins BIGINT NOT NULL DEFAULT 0,
				created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_users_money ON users(money DESC);
		`,
	},
	{
		name: "transactions table",
		sql: `
			CREATE TABLE IF NOT EXISTS transactions (
				id          BIGSERIAL PRIMARY KEY,
				user_id     BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
				amount      BIGINT NOT NULL,
				type        VARCHAR(50) NOT NULL,
				description TEXT,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
		`,
	},
}

// Migrate creates the schema. It is safe to run on every start.
func Migrate(ctx context.Context, db DBTX) error {
	for _, m := range migrations {
		if _, err := db.Exec(ctx, m.sql); err != nil {
			return &MigrationError{Name: m.name, Err: err}
		}
	}
	return nil
}

// MigrationError reports which migration step failed.
type MigrationError struct {
	Name string
	Err  error
}

func (e *MigrationError) Error() string {
	return "migration " + e.Name + ": " + e.Err.Error()
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}
