package bot

import (
	"sync"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/config"
)

// Whitelist decides which chats the bot answers. Users seen in an allowed
// group may also talk to the bot privately.
type Whitelist struct {
	cfg *config.Config

	mu      sync.RWMutex
	private map[int64]bool
}

// NewWhitelist creates a Whitelist over the configured chats.
func NewWhitelist(cfg *config.Config) *Whitelist {
	return &Whitelist{cfg: cfg, private: make(map[int64]bool)}
}

// Allow reports whether an update from sender in chat should be handled.
func (w *Whitelist) Allow(chat *tele.Chat, sender *tele.User) bool {
	if chat == nil || sender == nil {
		return false
	}

	if chat.Type == tele.ChatPrivate {
		if len(w.cfg.Whitelist.Chats) == 0 {
			return true
		}
		w.mu.RLock()
		defer w.mu.RUnlock()
		return w.private[sender.ID]
	}

	if !w.cfg.IsChatAllowed(chat.ID) {
		return false
	}
	w.mu.Lock()
	w.private[sender.ID] = true
	w.mu.Unlock()
	return true
}

// Middleware drops updates from chats the whitelist rejects.
func (w *Whitelist) Middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !w.Allow(c.Chat(), c.Sender()) {
				ev := log.Debug()
				if chat := c.Chat(); chat != nil {
					ev = ev.Int64("chat_id", chat.ID)
				}
				ev.Msg("Ignoring update from non-whitelisted chat")
				return nil
			}
			return next(c)
		}
	}
}

// LoggingMiddleware logs every incoming update.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()

			logEvent := log.Debug()
			if sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			if cb := c.Callback(); cb != nil {
				logEvent = logEvent.Str("callback", cb.Data)
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received update")

			return next(c)
		}
	}
}

// RecoveryMiddleware turns a handler panic into an error reply.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Msg("Recovered from panic in handler")
					err = c.Reply("❌ Internal error, please try again later")
				}
			}()
			return next(c)
		}
	}
}
