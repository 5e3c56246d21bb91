// Package game defines the common contract for single-call games, the stake
// rules they share and a registry to look them up by command.
package game

import (
	"context"

	"casino-bot/internal/model"
)

// Parameter keys understood by the built-in games.
const (
	ParamGuess  = "guess"
	ParamChoice = "choice"
)

// GameResult represents the outcome of a game play.
type GameResult struct {
	Payout      int64          // Net change to the balance (positive = win, negative = loss, 0 = push)
	Description string         // Human-readable result description
	Details     map[string]any // Additional game-specific details
}

// Apply credits the payout to p and counts one gamble.
func (r *GameResult) Apply(p *model.Profile) {
	p.Money += r.Payout
	p.GambleCount++
}

// Game is a wagering game resolved in a single call.
type Game interface {
	// Name returns the display name (e.g. "Roulette").
	Name() string

	// Command returns the chat command that triggers this game.
	Command() string

	// Description returns a one-line summary for /help.
	Description() string

	// MaxBet returns the regular stake cap, or 0 when the stake is fixed.
	MaxBet() int64

	// ValidateBet checks the stake and parameters against p without drawing
	// any randomness. It returns an error wrapping ErrValidation.
	ValidateBet(p *model.Profile, bet int64, params map[string]any) error

	// Play validates, draws and computes the result. It never mutates p;
	// the caller applies the result through the ledger.
	Play(ctx context.Context, p *model.Profile, bet int64, params map[string]any) (*GameResult, error)
}

// StringParam returns params[key] as a string, or "" if absent.
func StringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	s, _ := params[key].(string)
	return s
}
