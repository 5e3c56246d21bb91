// Package coinflip implements the fixed-stake heads-or-tails game.
package coinflip

import (
	"context"
	"fmt"
	"strings"

	"casino-bot/internal/game"
	"casino-bot/internal/model"
)

// DefaultStake is the amount won or lost on every flip.
const DefaultStake = 50

// Side is one face of the coin.
type Side int

const (
	Heads Side = iota
	Tails
)

func (s Side) String() string {
	if s == Heads {
		return "heads"
	}
	return "tails"
}

// ParseGuess normalizes a player's guess. Accepted spellings are
// heads/h/0/表 and tails/t/1/裏, case-insensitive.
func ParseGuess(guess string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(guess)) {
	case "heads", "head", "h", "0", "表":
		return Heads, nil
	case "tails", "tail", "t", "1", "裏":
		return Tails, nil
	}
	return 0, fmt.Errorf("%w: %q", game.ErrInvalidGuess, guess)
}

// Game implements game.Game for coinflip. The bet argument is ignored; the
// stake is fixed.
type Game struct {
	stake int64
	rng   game.Rand
}

// New creates a coinflip game. A non-positive stake selects DefaultStake.
func New(stake int64, rng game.Rand) *Game {
	if stake <= 0 {
		stake = DefaultStake
	}
	return &Game{stake: stake, rng: game.OrDefault(rng)}
}

func (g *Game) Name() string    { return "Coinflip" }
func (g *Game) Command() string { return "coinflip" }
func (g *Game) MaxBet() int64   { return 0 }

func (g *Game) Description() string {
	return fmt.Sprintf("Call heads or tails: win or lose %d", g.stake)
}

// Stake returns the fixed amount at risk.
func (g *Game) Stake() int64 {
	return g.stake
}

// ValidateBet checks the guess. There is no funds check, so a balance may go
// negative after a loss.
func (g *Game) ValidateBet(_ *model.Profile, _ int64, params map[string]any) error {
	_, err := ParseGuess(game.StringParam(params, game.ParamGuess))
	return err
}

// Play flips the coin.
func (g *Game) Play(_ context.Context, _ *model.Profile, _ int64, params map[string]any) (*game.GameResult, error) {
	guess, err := ParseGuess(game.StringParam(params, game.ParamGuess))
	if err != nil {
		return nil, err
	}

	result := Side(g.rng.IntN(2))
	payout := -g.stake
	description := fmt.Sprintf("🪙 It landed %s. You lost %d.", result, g.stake)
	if result == guess {
		payout = g.stake
		description = fmt.Sprintf("🪙 It landed %s! You won %d.", result, g.stake)
	}

	return &game.GameResult{
		Payout:      payout,
		Description: description,
		Details: map[string]any{
			"guess":  guess.String(),
			"result": result.String(),
		},
	}, nil
}
