package handler

import (
	"errors"

	"github.com/rs/zerolog/log"

	"casino-bot/internal/game"
	"casino-bot/internal/service"
	"casino-bot/internal/session"
)

// errorText maps a service error to the message shown to the player.
// Internal failures get a generic message and are logged.
func errorText(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidBet):
		return "❌ Bet must be a whole number of at least 1"
	case errors.Is(err, game.ErrBetTooHigh),
		errors.Is(err, game.ErrInsufficientFunds):
		return "❌ " + capitalize(err.Error())
	case errors.Is(err, game.ErrInvalidGuess):
		return "❌ Guess heads or tails"
	case errors.Is(err, game.ErrInvalidChoice):
		return "❌ Choose red, black, green or a number from 0 to 36"
	case errors.Is(err, game.ErrInvalidAction):
		return "❌ That move is not allowed right now"
	case errors.Is(err, game.ErrUnknownGame):
		return "❌ Unknown game"
	case errors.Is(err, service.ErrDailyAlreadyClaimed):
		return "📅 You already claimed today's bonus, come back tomorrow"
	case errors.Is(err, session.ErrAlreadyActive):
		return "⏳ Finish your current game first"
	case errors.Is(err, session.ErrNotOwner):
		return "🚫 This is not your game"
	case errors.Is(err, session.ErrNoActiveSession):
		return "⌛ This game has already ended"
	}
	log.Error().Err(err).Msg("Command failed")
	return "❌ Something went wrong, please try again later"
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
