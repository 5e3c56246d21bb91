// Package roulette implements a single-zero roulette wheel.
package roulette

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"casino-bot/internal/game"
	"casino-bot/internal/model"
)

// Payout multipliers.
const (
	ColourMultiplier = 2
	NumberMultiplier = 35
)

// Colour of a pocket.
type Colour string

const (
	Red   Colour = "red"
	Black Colour = "black"
	Green Colour = "green"
)

var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColourOf returns the colour of pocket n (0..36).
func ColourOf(n int) Colour {
	switch {
	case n == 0:
		return Green
	case redPockets[n]:
		return Red
	default:
		return Black
	}
}

// Choice is a parsed bet: either a colour or a single number.
type Choice struct {
	Colour Colour
	Number int
}

// IsNumber reports whether the choice is a straight-up number bet.
func (c Choice) IsNumber() bool {
	return c.Colour == ""
}

func (c Choice) String() string {
	if c.IsNumber() {
		return strconv.Itoa(c.Number)
	}
	return string(c.Colour)
}

// ParseChoice accepts red/black/green (or 赤/黒/緑) and numbers 0..36.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r", "赤":
		return Choice{Colour: Red}, nil
	case "black", "b", "黒":
		return Choice{Colour: Black}, nil
	case "green", "g", "緑":
		return Choice{Colour: Green}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 36 {
		return Choice{}, fmt.Errorf("%w: %q", game.ErrInvalidChoice, s)
	}
	return Choice{Number: n}, nil
}

// CalculatePayout returns the net payout of choice when the ball lands on result.
// Colour and number payouts never both apply.
func CalculatePayout(choice Choice, result int, bet int64) int64 {
	if choice.IsNumber() {
		if choice.Number == result {
			return bet * NumberMultiplier
		}
		return -bet
	}
	if choice.Colour == ColourOf(result) {
		return bet * ColourMultiplier
	}
	return -bet
}

// Game implements game.Game for roulette.
type Game struct {
	stake game.Stake
	rng   game.Rand
}

// New creates a roulette game. vip holders may exceed maxBet.
func New(maxBet int64, rng game.Rand) *Game {
	if maxBet <= 0 {
		maxBet = game.DefaultMaxBet
	}
	return &Game{
		stake: game.Stake{Max: maxBet, VIPUnbounded: true, RequireFunds: true},
		rng:   game.OrDefault(rng),
	}
}

func (g *Game) Name() string    { return "Roulette" }
func (g *Game) Command() string { return "roulette" }
func (g *Game) MaxBet() int64   { return g.stake.Max }

func (g *Game) Description() string {
	return "Bet on red, black, green or a number 0-36 (colour pays 2x, number 35x)"
}

// ValidateBet checks the stake and the choice.
func (g *Game) ValidateBet(p *model.Profile, bet int64, params map[string]any) error {
	if err := g.stake.Validate(p, bet); err != nil {
		return err
	}
	_, err := ParseChoice(game.StringParam(params, game.ParamChoice))
	return err
}

// Play spins the wheel.
func (g *Game) Play(_ context.Context, p *model.Profile, bet int64, params map[string]any) (*game.GameResult, error) {
	if err := g.ValidateBet(p, bet, params); err != nil {
		return nil, err
	}
	choice, _ := ParseChoice(game.StringParam(params, game.ParamChoice))

	result := g.rng.IntN(37)
	colour := ColourOf(result)
	payout := CalculatePayout(choice, result, bet)

	var description string
	if payout > 0 {
		description = fmt.Sprintf("🎯 %d (%s)! You won %d.", result, colour, payout)
	} else {
		description = fmt.Sprintf("💥 %d (%s). You lost %d.", result, colour, bet)
	}

	return &game.GameResult{
		Payout:      payout,
		Description: description,
		Details: map[string]any{
			"choice": choice.String(),
			"result": result,
			"colour": string(colour),
			"bet":    bet,
		},
	}, nil
}
