package handler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/game"
	"casino-bot/internal/game/blackjack"
	"casino-bot/internal/game/russianroulette"
	"casino-bot/internal/service"
	"casino-bot/internal/session"
)

// Default idle timeouts for session games.
const (
	DefaultRussianRouletteTimeout = 30 * time.Second
	DefaultBlackjackTimeout       = 60 * time.Second
)

// GameHandler handles game commands and session buttons.
type GameHandler struct {
	gameService *service.GameService
	timers      *sessionTimers
	timeouts    map[session.Kind]time.Duration
}

// NewGameHandler creates a new GameHandler. Zero timeouts fall back to the
// defaults.
func NewGameHandler(gameService *service.GameService, rrTimeout, bjTimeout time.Duration) *GameHandler {
	if rrTimeout <= 0 {
		rrTimeout = DefaultRussianRouletteTimeout
	}
	if bjTimeout <= 0 {
		bjTimeout = DefaultBlackjackTimeout
	}
	return &GameHandler{
		gameService: gameService,
		timers:      newSessionTimers(),
		timeouts: map[session.Kind]time.Duration{
			session.KindRussianRoulette: rrTimeout,
			session.KindBlackjack:       bjTimeout,
		},
	}
}

// HandleCoinflip handles /coinflip <guess>.
func (h *GameHandler) HandleCoinflip(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /coinflip <heads|tails>")
	}
	return h.play(c, "coinflip", 0, map[string]any{game.ParamGuess: args[0]})
}

// HandleRoulette handles /roulette <bet> <choice>.
func (h *GameHandler) HandleRoulette(c tele.Context) error {
	args := c.Args()
	if len(args) < 2 {
		return c.Reply("Usage: /roulette <bet> <red|black|green|0-36>")
	}
	bet, err := parseBet(args[0])
	if err != nil {
		return c.Reply(errorText(err))
	}
	return h.play(c, "roulette", bet, map[string]any{game.ParamChoice: args[1]})
}

// HandleSlot handles /slot <bet>.
func (h *GameHandler) HandleSlot(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /slot <bet>")
	}
	bet, err := parseBet(args[0])
	if err != nil {
		return c.Reply(errorText(err))
	}
	return h.play(c, "slot", bet, nil)
}

func (h *GameHandler) play(c tele.Context, command string, bet int64, params map[string]any) error {
	ctx := context.Background()

	res, err := h.gameService.Play(ctx, c.Sender().ID, command, bet, params)
	if err != nil {
		return c.Reply(errorText(err))
	}
	return c.Reply(formatPlay(res))
}

// HandleRussianRoulette handles /russianroulette <bet>.
func (h *GameHandler) HandleRussianRoulette(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /russianroulette <bet>")
	}
	bet, err := parseBet(args[0])
	if err != nil {
		return c.Reply(errorText(err))
	}

	ctx := context.Background()
	res, err := h.gameService.StartRussianRoulette(ctx, c.Sender().ID, bet)
	if err != nil {
		return c.Reply(errorText(err))
	}
	view := res.View.(russianroulette.View)
	return h.open(c, res.Handle, formatRussianRoulette(view), RussianRouletteKeyboard(res.Handle.ID))
}

// HandleBlackjack handles /blackjack <bet>.
func (h *GameHandler) HandleBlackjack(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /blackjack <bet>")
	}
	bet, err := parseBet(args[0])
	if err != nil {
		return c.Reply(errorText(err))
	}

	ctx := context.Background()
	res, err := h.gameService.StartBlackjack(ctx, c.Sender().ID, bet)
	if err != nil {
		return c.Reply(errorText(err))
	}
	view := res.View.(blackjack.View)
	return h.open(c, res.Handle, formatBlackjack(view), BlackjackKeyboard(res.Handle.ID))
}

// open posts the session panel and arms its idle timer. If the panel cannot
// be sent the session is dropped so the user is not left locked out.
func (h *GameHandler) open(c tele.Context, handle session.Handle, text string, markup *tele.ReplyMarkup) error {
	msg, err := c.Bot().Reply(c.Message(), text, markup)
	if err != nil {
		h.gameService.Expire(handle.UserID, handle.ID)
		return err
	}

	bot := c.Bot()
	h.timers.start(handle.ID, h.timeouts[handle.Kind], func() {
		if !h.gameService.Expire(handle.UserID, handle.ID) {
			return
		}
		if _, err := bot.Edit(msg, timeoutText(handle.Kind)); err != nil {
			log.Warn().Err(err).Str("session_id", handle.ID).Msg("Failed to edit timed out session")
		}
	})
	return nil
}

func timeoutText(kind session.Kind) string {
	if kind == session.KindBlackjack {
		return "⌛ The hand timed out. Your bet was not taken."
	}
	return "⌛ The round timed out. Nothing was won or lost."
}

// HandleCallback handles the session buttons.
func (h *GameHandler) HandleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	kind, action, sessionID, ok := DecodeCallback(callback.Data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Unknown button"})
	}

	ctx := context.Background()
	res, err := h.gameService.Act(ctx, c.Sender().ID, sessionID, action)
	if err != nil {
		// A rejected press from someone else must not disturb the owner's timer.
		if service.IsUserError(err) {
			return c.Respond(&tele.CallbackResponse{Text: errorText(err), ShowAlert: true})
		}
		h.timers.stop(sessionID)
		_ = c.Respond(&tele.CallbackResponse{Text: errorText(err), ShowAlert: true})
		return err
	}

	step := res.Step
	text := h.stepText(kind, step)
	if step.Outcome.Terminal {
		h.timers.stop(sessionID)
		if res.Profile != nil {
			text += "\n" + formatBalance(res.Profile)
		}
		text = withTitles(text, res.NewTitles)
		if _, err := c.Bot().Edit(callback.Message, text); err != nil {
			return err
		}
		return c.Respond()
	}

	h.timers.reset(sessionID, h.timeouts[kind])
	var markup *tele.ReplyMarkup
	switch kind {
	case session.KindRussianRoulette:
		markup = RussianRouletteKeyboard(sessionID)
	case session.KindBlackjack:
		markup = BlackjackKeyboard(sessionID)
	}
	if _, err := c.Bot().Edit(callback.Message, text, markup); err != nil {
		return err
	}
	return c.Respond()
}

func (h *GameHandler) stepText(kind session.Kind, step *session.Step) string {
	switch view := step.Outcome.Snapshot.(type) {
	case russianroulette.View:
		return formatRussianRoulette(view)
	case blackjack.View:
		return formatBlackjack(view)
	}
	log.Warn().Str("game", string(kind)).Msg("Unexpected session snapshot")
	return "🎲"
}
