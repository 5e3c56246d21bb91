package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"casino-bot/internal/game"
	"casino-bot/internal/game/blackjack"
	"casino-bot/internal/game/russianroulette"
	"casino-bot/internal/ledger"
	"casino-bot/internal/model"
	"casino-bot/internal/session"
)

// PlayResult is the outcome of an instant game.
type PlayResult struct {
	Game      game.Game
	Result    *game.GameResult
	Profile   *model.Profile
	NewTitles []string
}

// StartResult describes a newly started session.
type StartResult struct {
	Handle session.Handle
	View   any // russianroulette.View or blackjack.View
}

// ActResult is the outcome of one session action. Profile and NewTitles are
// set only when the action settled.
type ActResult struct {
	Step      *session.Step
	Profile   *model.Profile
	NewTitles []string
}

// GameService resolves instant games and drives multi-turn sessions.
type GameService struct {
	ledger   *ledger.Ledger
	games    *game.Registry
	sessions *session.Registry
	rng      game.Rand
	maxBet   int64
}

// NewGameService creates a new GameService.
func NewGameService(l *ledger.Ledger, games *game.Registry, sessions *session.Registry, rng game.Rand, maxBet int64) *GameService {
	if maxBet <= 0 {
		maxBet = game.DefaultMaxBet
	}
	return &GameService{
		ledger:   l,
		games:    games,
		sessions: sessions,
		rng:      game.OrDefault(rng),
		maxBet:   maxBet,
	}
}

// Games returns the registered instant games.
func (s *GameService) Games() []game.Game {
	return s.games.List()
}

// Play resolves an instant game for userID. Live sessions do not block it.
func (s *GameService) Play(ctx context.Context, userID int64, command string, bet int64, params map[string]any) (*PlayResult, error) {
	g, err := s.games.Lookup(command)
	if err != nil {
		return nil, err
	}

	var result *game.GameResult
	change, err := s.ledger.Update(ctx, userID, func(p *model.Profile) (*model.Transaction, error) {
		r, err := g.Play(ctx, p, bet, params)
		if err != nil {
			return nil, err
		}
		r.Apply(p)
		result = r
		return model.NewTransaction(userID, r.Payout, g.Command(), ""), nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("game", g.Command()).
		Int64("bet", bet).
		Int64("payout", result.Payout).
		Msg("Game played")

	return &PlayResult{
		Game:      g,
		Result:    result,
		Profile:   change.Profile,
		NewTitles: change.NewTitles,
	}, nil
}

// StartRussianRoulette validates the stake and opens a round. No money moves
// until the round ends.
func (s *GameService) StartRussianRoulette(ctx context.Context, userID, bet int64) (*StartResult, error) {
	if _, ok := s.sessions.Active(userID); ok {
		return nil, session.ErrAlreadyActive
	}
	p, err := s.ledger.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := russianroulette.Validate(p, bet, s.maxBet); err != nil {
		return nil, err
	}

	m := russianroulette.New(bet, s.rng)
	return s.start(userID, m, m.View(0))
}

// StartBlackjack validates the stake once and deals a hand.
func (s *GameService) StartBlackjack(ctx context.Context, userID, bet int64) (*StartResult, error) {
	if _, ok := s.sessions.Active(userID); ok {
		return nil, session.ErrAlreadyActive
	}
	p, err := s.ledger.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := blackjack.Validate(p, bet, s.maxBet); err != nil {
		return nil, err
	}

	m, err := blackjack.New(bet, s.rng)
	if err != nil {
		return nil, err
	}
	return s.start(userID, m, m.View())
}

func (s *GameService) start(userID int64, m session.Machine, view any) (*StartResult, error) {
	h, err := s.sessions.TryStart(userID, m)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int64("user_id", userID).
		Str("session_id", h.ID).
		Str("game", string(h.Kind)).
		Msg("Session started")
	return &StartResult{Handle: h, View: view}, nil
}

// Act applies one player action to a session and settles terminal outcomes
// through the ledger.
func (s *GameService) Act(ctx context.Context, actorID int64, sessionID string, action session.Action) (*ActResult, error) {
	step, err := s.sessions.Step(actorID, sessionID, action)
	if err != nil {
		return nil, err
	}
	res := &ActResult{Step: step}
	if !step.Outcome.Terminal {
		return res, nil
	}

	settlement := step.Outcome.Settlement
	logger := log.With().
		Int64("user_id", step.UserID).
		Str("session_id", step.ID).
		Str("game", string(step.Kind)).
		Int64("payout", settlement.Delta).
		Logger()

	if settlement.IsZero() {
		logger.Info().Msg("Session ended without settlement")
		return res, nil
	}

	change, err := s.ledger.Update(ctx, step.UserID, func(p *model.Profile) (*model.Transaction, error) {
		p.Money += settlement.Delta
		if settlement.Gamble {
			p.GambleCount++
		}
		return model.NewTransaction(step.UserID, settlement.Delta, txType(step.Kind), ""), nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to settle session")
		return nil, err
	}

	logger.Info().Msg("Session settled")
	res.Profile = change.Profile
	res.NewTitles = change.NewTitles
	return res, nil
}

// Expire drops a session that timed out. Stale ids are ignored.
func (s *GameService) Expire(userID int64, sessionID string) bool {
	expired := s.sessions.Expire(userID, sessionID)
	if expired {
		log.Info().Int64("user_id", userID).Str("session_id", sessionID).Msg("Session expired")
	}
	return expired
}

func txType(k session.Kind) string {
	switch k {
	case session.KindRussianRoulette:
		return model.TxTypeRussianRoulette
	case session.KindBlackjack:
		return model.TxTypeBlackjack
	}
	return string(k)
}

// IsUserError reports whether err is a rejection the player caused, as
// opposed to an internal failure.
func IsUserError(err error) bool {
	return errors.Is(err, game.ErrValidation) ||
		errors.Is(err, ErrDailyAlreadyClaimed) ||
		errors.Is(err, session.ErrAlreadyActive) ||
		errors.Is(err, session.ErrNoActiveSession) ||
		errors.Is(err, session.ErrNotOwner)
}
