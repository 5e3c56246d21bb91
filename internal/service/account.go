// Package service provides the command-level operations behind the bot.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"casino-bot/internal/achievement"
	"casino-bot/internal/ledger"
	"casino-bot/internal/model"
)

// Common errors for account operations.
var (
	ErrDailyAlreadyClaimed = errors.New("daily reward already claimed")
)

// RecentLimit is how many journal rows status shows.
const RecentLimit = 5

// DailySchedule holds the login bonus amounts.
type DailySchedule struct {
	Base   int64 // every claim
	Weekly int64 // added when the streak is a multiple of 7
	Fifth  int64 // added when the streak is a multiple of 5 but not of 7
}

// DefaultDailySchedule is 200 per day, +1500 every 7th day, +100 every 5th.
var DefaultDailySchedule = DailySchedule{Base: 200, Weekly: 1500, Fifth: 100}

// NextStreak returns the streak after a claim on today. It reports false
// when today has already been claimed.
func NextStreak(last model.Date, streak int, today model.Date) (int, bool) {
	switch {
	case last == today:
		return streak, false
	case !last.IsZero() && last == today.AddDays(-1):
		return streak + 1, true
	default:
		return 1, true
	}
}

// Bonus returns the amount credited for reaching streak.
func (s DailySchedule) Bonus(streak int) int64 {
	bonus := s.Base
	switch {
	case streak > 0 && streak%7 == 0:
		bonus += s.Weekly
	case streak > 0 && streak%5 == 0:
		bonus += s.Fifth
	}
	return bonus
}

// DailyResult describes a successful claim.
type DailyResult struct {
	Bonus     int64
	Streak    int
	Profile   *model.Profile
	NewTitles []string
}

// StatusReport is a read-only view of a profile.
type StatusReport struct {
	Profile *model.Profile
	Recent  []*model.Transaction
}

// AccountService handles the daily bonus and profile reports.
type AccountService struct {
	ledger   *ledger.Ledger
	schedule DailySchedule
	loc      *time.Location
	now      func() time.Time
}

// NewAccountService creates a new AccountService. Calendar days are counted
// in loc.
func NewAccountService(l *ledger.Ledger, schedule DailySchedule, loc *time.Location) *AccountService {
	if loc == nil {
		loc = time.Local
	}
	return &AccountService{
		ledger:   l,
		schedule: schedule,
		loc:      loc,
		now:      time.Now,
	}
}

// Today returns the current calendar day in the service's time zone.
func (s *AccountService) Today() model.Date {
	return model.DateOf(s.now().In(s.loc))
}

// Daily claims the login bonus for today. A second claim on the same day
// returns ErrDailyAlreadyClaimed and changes nothing.
func (s *AccountService) Daily(ctx context.Context, userID int64) (*DailyResult, error) {
	today := s.Today()
	var bonus int64

	change, err := s.ledger.Update(ctx, userID, func(p *model.Profile) (*model.Transaction, error) {
		streak, ok := NextStreak(p.LastDaily, p.Streak, today)
		if !ok {
			return nil, ErrDailyAlreadyClaimed
		}
		bonus = s.schedule.Bonus(streak)

		p.Streak = streak
		p.Money += bonus
		p.LastDaily = today
		p.TotalLogins++
		return model.NewTransaction(userID, bonus, model.TxTypeDaily, fmt.Sprintf("streak %d", streak)), nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Int("streak", change.Profile.Streak).
		Int64("bonus", bonus).
		Msg("Daily bonus claimed")

	return &DailyResult{
		Bonus:     bonus,
		Streak:    change.Profile.Streak,
		Profile:   change.Profile,
		NewTitles: change.NewTitles,
	}, nil
}

// Status returns the profile and its most recent journal rows.
func (s *AccountService) Status(ctx context.Context, userID int64) (*StatusReport, error) {
	p, err := s.ledger.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.ledger.Recent(ctx, userID, RecentLimit)
	if err != nil {
		return nil, err
	}
	return &StatusReport{Profile: p, Recent: recent}, nil
}

// Achievements returns the catalog with the user's earned state.
func (s *AccountService) Achievements(ctx context.Context, userID int64) ([]achievement.Entry, error) {
	p, err := s.ledger.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievement.Catalog(p), nil
}
