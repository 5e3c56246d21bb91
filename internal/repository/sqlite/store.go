// Package sqlite provides a single-file profile store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"casino-bot/internal/model"
	"casino-bot/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id      INTEGER PRIMARY KEY,
	money        INTEGER NOT NULL DEFAULT 500,
	affection    INTEGER NOT NULL DEFAULT 0,
	streak       INTEGER NOT NULL DEFAULT 0,
	last_daily   TEXT NOT NULL DEFAULT '',
	titles       TEXT NOT NULL DEFAULT '[]',
	gamble_count INTEGER NOT NULL DEFAULT 0,
	total_logins INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	amount      INTEGER NOT NULL,
	type        TEXT NOT NULL,
	description TEXT,
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
`

// Store is the SQLite profile store.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// GetOrCreate returns the stored profile, creating it with defaults if absent.
func (s *Store) GetOrCreate(ctx context.Context, userID int64) (*model.Profile, error) {
	now := time.Now().UTC().UnixMilli()
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (user_id, money, affection, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO NOTHING
`, userID, model.DefaultMoney, model.DefaultAffection, now, now)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT user_id, money, affection, streak, last_daily, titles, gamble_count, total_logins, created_at, updated_at
FROM users
WHERE user_id = ?
`, userID)
	return scanProfile(row)
}

func scanProfile(row *sql.Row) (*model.Profile, error) {
	var (
		p                    model.Profile
		lastDaily, titles    string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&p.UserID,
		&p.Money,
		&p.Affection,
		&p.Streak,
		&lastDaily,
		&titles,
		&p.GambleCount,
		&p.TotalLogins,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.LastDaily, err = model.ParseDate(lastDaily)
	if err != nil {
		return nil, fmt.Errorf("decode last_daily: %w", err)
	}
	if err := json.Unmarshal([]byte(titles), &p.Titles); err != nil {
		return nil, fmt.Errorf("decode titles: %w", err)
	}
	if p.Titles == nil {
		p.Titles = []string{}
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

// Save writes the full profile and appends entries in one transaction.
func (s *Store) Save(ctx context.Context, p *model.Profile, entries []*model.Transaction) (err error) {
	titles := p.Titles
	if titles == nil {
		titles = []string{}
	}
	encoded, err := json.Marshal(titles)
	if err != nil {
		return fmt.Errorf("encode titles: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
UPDATE users
SET money = ?, affection = ?, streak = ?, last_daily = ?, titles = ?,
    gamble_count = ?, total_logins = ?, updated_at = ?
WHERE user_id = ?
`,
		p.Money,
		p.Affection,
		p.Streak,
		p.LastDaily.String(),
		string(encoded),
		p.GambleCount,
		p.TotalLogins,
		now.UnixMilli(),
		p.UserID,
	)
	if err != nil {
		return fmt.Errorf("save profile %d: %w", p.UserID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save profile %d: %w", p.UserID, err)
	}
	if n == 0 {
		return fmt.Errorf("save profile %d: %w", p.UserID, repository.ErrUserNotFound)
	}

	for _, e := range entries {
		res, err := tx.ExecContext(ctx, `
INSERT INTO transactions (user_id, amount, type, description, created_at)
VALUES (?, ?, ?, ?, ?)
`, e.UserID, e.Amount, e.Type, e.Description, now.UnixMilli())
		if err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		if e.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		e.CreatedAt = now
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	p.UpdatedAt = now
	return nil
}

// Recent returns up to limit journal rows for userID, newest first.
func (s *Store) Recent(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, user_id, amount, type, description, created_at
FROM transactions
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*model.Transaction, 0, limit)
	for rows.Next() {
		var (
			tx        model.Transaction
			desc      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &desc, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if desc.Valid {
			d := desc.String
			tx.Description = &d
		}
		tx.CreatedAt = time.UnixMilli(createdAt).UTC()
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
