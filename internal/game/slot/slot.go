// Package slot implements the three-reel slot machine.
package slot

import (
	"context"
	"fmt"
	"strings"

	"casino-bot/internal/game"
	"casino-bot/internal/model"
)

// Win multipliers applied to the stake.
const (
	TripleMultiplier = 5
	PairMultiplier   = 2
)

// Symbols on each reel.
var Symbols = []string{"🍒", "🍋", "🍉", "🍇", "⭐"}

// Game implements game.Game for the slot machine. The stake is taken up front
// and the winnings paid back, so the net result is win - bet.
type Game struct {
	stake game.Stake
	rng   game.Rand
}

// New creates a slot machine. vip does not lift maxBet here.
func New(maxBet int64, rng game.Rand) *Game {
	if maxBet <= 0 {
		maxBet = game.DefaultMaxBet
	}
	return &Game{
		stake: game.Stake{Max: maxBet, RequireFunds: true},
		rng:   game.OrDefault(rng),
	}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Slot Machine"
}

// Command returns the command that triggers this game.
func (g *Game) Command() string {
	return "slot"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Spin three reels: three of a kind pays 5x, a pair pays 2x"
}

// MaxBet returns the maximum allowed bet.
func (g *Game) MaxBet() int64 {
	return g.stake.Max
}

// ValidateBet checks the bet range and that the balance covers it.
func (g *Game) ValidateBet(p *model.Profile, bet int64, _ map[string]any) error {
	return g.stake.Validate(p, bet)
}

// Play spins the reels.
func (g *Game) Play(_ context.Context, p *model.Profile, bet int64, params map[string]any) (*game.GameResult, error) {
	if err := g.ValidateBet(p, bet, params); err != nil {
		return nil, err
	}

	reels := [3]int{
		g.rng.IntN(len(Symbols)),
		g.rng.IntN(len(Symbols)),
		g.rng.IntN(len(Symbols)),
	}
	win := CalculateWin(reels, bet)

	display := Display(reels)
	var description string
	switch {
	case win == bet*TripleMultiplier:
		description = fmt.Sprintf("🎰 %s\n🎉 Three of a kind! You won %d.", display, win)
	case win > 0:
		description = fmt.Sprintf("🎰 %s\n😊 A pair! You won %d.", display, win)
	default:
		description = fmt.Sprintf("🎰 %s\n😢 No match. You lost %d.", display, bet)
	}

	return &game.GameResult{
		Payout:      win - bet,
		Description: description,
		Details: map[string]any{
			"reels": display,
			"win":   win,
			"bet":   bet,
		},
	}, nil
}

// CalculateWin returns the gross winnings for three reel indexes:
// 5x bet for three of a kind, 2x for any pair, otherwise 0.
func CalculateWin(reels [3]int, bet int64) int64 {
	a, b, c := reels[0], reels[1], reels[2]
	switch {
	case a == b && b == c:
		return bet * TripleMultiplier
	case a == b || b == c || a == c:
		return bet * PairMultiplier
	default:
		return 0
	}
}

// Display renders reel indexes as symbols.
func Display(reels [3]int) string {
	parts := make([]string, len(reels))
	for i, r := range reels {
		parts[i] = Symbols[r]
	}
	return strings.Join(parts, " | ")
}
