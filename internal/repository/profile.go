package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"casino-bot/internal/model"
)

const profileColumns = `user_id, money, affection, streak, last_daily, titles, gamble_count, total_logins, created_at, updated_at`

// ProfileRepository handles profile rows.
type ProfileRepository struct {
	db DBTX
}

// NewProfileRepository creates a ProfileRepository on db.
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// scanProfile reads one profile row, normalizing last_daily into model.Date.
func scanProfile(row pgx.Row) (*model.Profile, error) {
	var (
		p         model.Profile
		lastDaily pgtype.Date
	)
	err := row.Scan(
		&p.UserID,
		&p.Money,
		&p.Affection,
		&p.Streak,
		&lastDaily,
		&p.Titles,
		&p.GambleCount,
		&p.TotalLogins,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastDaily.Valid {
		p.LastDaily = model.DateOf(lastDaily.Time)
	}
	if p.Titles == nil {
		p.Titles = []string{}
	}
	return &p, nil
}

// dateParam converts a model.Date into a nullable DATE parameter.
func dateParam(d model.Date) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

// Create inserts a default profile. A concurrent insert for the same id
// yields (nil, nil).
func (r *ProfileRepository) Create(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `
		INSERT INTO users (user_id, money, affection, streak, titles, gamble_count, total_logins)
		VALUES ($1, $2, $3, 0, '{}', 0, 0)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRow(ctx, query, userID, model.DefaultMoney, model.DefaultAffection))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// GetByID retrieves a profile. Returns ErrUserNotFound if absent.
func (r *ProfileRepository) GetByID(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE user_id = $1`

	p, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetOrCreate returns the profile for userID, inserting defaults on first access.
// The boolean reports whether the row was created by this call.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID int64) (*model.Profile, bool, error) {
	p, err := r.GetByID(ctx, userID)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	p, err = r.Create(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		// Lost the insert race; the other writer's row is there now.
		p, err = r.GetByID(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		return p, false, nil
	}
	return p, true, nil
}

// Update writes every mutable column of p unconditionally.
func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	const query = `
		UPDATE users
		SET money = $2, affection = $3, streak = $4, last_daily = $5, titles = $6,
		    gamble_count = $7, total_logins = $8, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`

	titles := p.Titles
	if titles == nil {
		titles = []string{}
	}

	err := r.db.QueryRow(ctx, query,
		p.UserID,
		p.Money,
		p.Affection,
		p.Streak,
		dateParam(p.LastDaily),
		titles,
		p.GambleCount,
		p.TotalLogins,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
