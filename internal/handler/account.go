// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"

	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/service"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accountService *service.AccountService
	gameService    *service.GameService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, gameService *service.GameService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		gameService:    gameService,
	}
}

// HandleDaily handles the /daily command.
func (h *AccountHandler) HandleDaily(c tele.Context) error {
	ctx := context.Background()

	res, err := h.accountService.Daily(ctx, c.Sender().ID)
	if err != nil {
		return c.Reply(errorText(err))
	}
	return c.Reply(formatDaily(res))
}

// HandleStatus handles the /status command.
func (h *AccountHandler) HandleStatus(c tele.Context) error {
	ctx := context.Background()

	report, err := h.accountService.Status(ctx, c.Sender().ID)
	if err != nil {
		return c.Reply(errorText(err))
	}
	return c.Reply(formatStatus(report))
}

// HandleAchievement handles the /achievement command.
func (h *AccountHandler) HandleAchievement(c tele.Context) error {
	ctx := context.Background()

	entries, err := h.accountService.Achievements(ctx, c.Sender().ID)
	if err != nil {
		return c.Reply(errorText(err))
	}
	return c.Reply(formatCatalog(entries))
}

// HandleHelp handles the /help and /start commands.
func (h *AccountHandler) HandleHelp(c tele.Context) error {
	return c.Reply(formatHelp(h.gameService.Games()))
}
