package game

import (
	"fmt"

	"casino-bot/internal/achievement"
	"casino-bot/internal/model"
)

// DefaultMaxBet is the regular stake cap.
const DefaultMaxBet = 255

// Stake describes how a game bounds its bet.
type Stake struct {
	Max          int64 // regular cap; 0 disables the upper bound
	VIPUnbounded bool  // vip holders skip the cap
	RequireFunds bool  // the balance must cover the bet
}

// Validate checks bet against the stake rules for p.
func (s Stake) Validate(p *model.Profile, bet int64) error {
	if bet < 1 {
		return ErrInvalidBet
	}
	if s.Max > 0 && bet > s.Max && !(s.VIPUnbounded && achievement.HasVIP(p)) {
		return fmt.Errorf("%w: max bet is %d", ErrBetTooHigh, s.Max)
	}
	if s.RequireFunds && p.Money < bet {
		return fmt.Errorf("%w: balance %d, bet %d", ErrInsufficientFunds, p.Money, bet)
	}
	return nil
}
