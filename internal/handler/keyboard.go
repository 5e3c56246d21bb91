package handler

import (
	"strings"

	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/session"
)

// Callback data prefixes, one per session game.
const (
	PrefixRussianRoulette = "rr"
	PrefixBlackjack       = "bj"
)

var prefixes = map[session.Kind]string{
	session.KindRussianRoulette: PrefixRussianRoulette,
	session.KindBlackjack:       PrefixBlackjack,
}

// EncodeCallback builds button data such as "rr_fire_<session id>".
func EncodeCallback(kind session.Kind, action session.Action, sessionID string) string {
	return prefixes[kind] + "_" + string(action) + "_" + sessionID
}

// DecodeCallback parses button data produced by EncodeCallback.
func DecodeCallback(data string) (kind session.Kind, action session.Action, sessionID string, ok bool) {
	// Telebot prefixes unique buttons with a form feed.
	data = strings.TrimPrefix(data, "\f")

	parts := strings.SplitN(data, "_", 3)
	if len(parts) != 3 || parts[2] == "" {
		return "", "", "", false
	}
	switch parts[0] {
	case PrefixRussianRoulette:
		kind = session.KindRussianRoulette
	case PrefixBlackjack:
		kind = session.KindBlackjack
	default:
		return "", "", "", false
	}
	action = session.Action(parts[1])
	if !allowed(kind, action) {
		return "", "", "", false
	}
	return kind, action, parts[2], true
}

func allowed(kind session.Kind, action session.Action) bool {
	switch kind {
	case session.KindRussianRoulette:
		return action == session.ActionFire || action == session.ActionQuit
	case session.KindBlackjack:
		return action == session.ActionHit || action == session.ActionStand
	}
	return false
}

// RussianRouletteKeyboard builds the fire/quit panel.
func RussianRouletteKeyboard(sessionID string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{{
		{Text: "🔫 Fire", Data: EncodeCallback(session.KindRussianRoulette, session.ActionFire, sessionID)},
		{Text: "🏳️ Quit", Data: EncodeCallback(session.KindRussianRoulette, session.ActionQuit, sessionID)},
	}}
	return markup
}

// BlackjackKeyboard builds the hit/stand panel.
func BlackjackKeyboard(sessionID string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{{
		{Text: "🃏 Hit", Data: EncodeCallback(session.KindBlackjack, session.ActionHit, sessionID)},
		{Text: "✋ Stand", Data: EncodeCallback(session.KindBlackjack, session.ActionStand, sessionID)},
	}}
	return markup
}
