// Package bot wires the Telegram client, middleware and command handlers.
package bot

import (
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/config"
	"casino-bot/internal/handler"
	"casino-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	whitelist      *Whitelist
	accountHandler *handler.AccountHandler
	gameHandler    *handler.GameHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config         *config.Config
	AccountService *service.AccountService
	GameService    *service.GameService
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: deps.Config.Bot.PollTimeout},
		OnError: func(err error, c tele.Context) {
			ev := log.Error().Err(err)
			if c != nil && c.Sender() != nil {
				ev = ev.Int64("user_id", c.Sender().ID)
			}
			ev.Msg("Handler failed")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	games := deps.Config.Games
	b := &Bot{
		bot:            teleBot,
		cfg:            deps.Config,
		whitelist:      NewWhitelist(deps.Config),
		accountHandler: handler.NewAccountHandler(deps.AccountService, deps.GameService),
		gameHandler:    handler.NewGameHandler(deps.GameService, games.RussianRouletteTimeout, games.BlackjackTimeout),
	}

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(b.whitelist.Middleware())
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	// Account
	b.bot.Handle("/start", b.accountHandler.HandleHelp)
	b.bot.Handle("/help", b.accountHandler.HandleHelp)
	b.bot.Handle("/daily", b.accountHandler.HandleDaily)
	b.bot.Handle("/status", b.accountHandler.HandleStatus)
	b.bot.Handle("/achievement", b.accountHandler.HandleAchievement)

	// Instant games
	b.bot.Handle("/coinflip", b.gameHandler.HandleCoinflip)
	b.bot.Handle("/roulette", b.gameHandler.HandleRoulette)
	b.bot.Handle("/slot", b.gameHandler.HandleSlot)

	// Session games
	b.bot.Handle("/russianroulette", b.gameHandler.HandleRussianRoulette)
	b.bot.Handle("/blackjack", b.gameHandler.HandleBlackjack)

	b.bot.Handle(tele.OnCallback, b.gameHandler.HandleCallback)
}

// Start starts polling. It blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Str("username", b.bot.Me.Username).Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops polling.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
