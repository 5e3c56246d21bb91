// Package russianroulette implements the six-chamber push-your-luck game.
//
// The stake is not taken at the start. Each safe shot adds floor(bet/10)*3
// to a running reward. Hitting the loaded chamber loses the bet and the
// reward; clearing all five empty chambers pays the reward.
package russianroulette

import (
	"fmt"

	"casino-bot/internal/game"
	"casino-bot/internal/model"
	"casino-bot/internal/session"
)

// Chambers in the cylinder.
const Chambers = 6

// State of a round.
type State string

const (
	Armed    State = "armed"
	Dead     State = "dead"
	Survived State = "survived"
	Quit     State = "quit"
)

// View is the state reported after each action.
type View struct {
	Bet        int64
	Shots      int
	Remaining  int
	LastReward int64
	Reward     int64
	State      State
}

// RewardPerShot is the amount added to the running reward for one safe shot.
func RewardPerShot(bet int64) int64 {
	return bet / 10 * 3
}

// Stake returns the stake rules for starting a round.
func Stake(maxBet int64) game.Stake {
	if maxBet <= 0 {
		maxBet = game.DefaultMaxBet
	}
	return game.Stake{Max: maxBet, RequireFunds: true}
}

// Validate checks that p may start a round for bet.
func Validate(p *model.Profile, bet, maxBet int64) error {
	return Stake(maxBet).Validate(p, bet)
}

// Game is one round. It implements session.Machine.
type Game struct {
	bet     int64
	chamber int
	shots   int
	reward  int64
	state   State
}

// New loads a chamber uniformly from 1..Chambers.
func New(bet int64, rng game.Rand) *Game {
	return NewWithChamber(bet, game.OrDefault(rng).IntN(Chambers)+1)
}

// NewWithChamber starts a round with a known lethal chamber.
func NewWithChamber(bet int64, chamber int) *Game {
	return &Game{bet: bet, chamber: chamber, state: Armed}
}

// Kind implements session.Machine.
func (g *Game) Kind() session.Kind {
	return session.KindRussianRoulette
}

// Apply implements session.Machine.
func (g *Game) Apply(a session.Action) (*session.Outcome, error) {
	if g.state != Armed {
		return nil, fmt.Errorf("%w: round is %s", game.ErrInvalidAction, g.state)
	}

	switch a {
	case session.ActionFire:
		return g.fire(), nil
	case session.ActionQuit:
		g.state = Quit
		return g.outcome(0, session.Settlement{}), nil
	default:
		return nil, fmt.Errorf("%w: %s", game.ErrInvalidAction, a)
	}
}

func (g *Game) fire() *session.Outcome {
	g.shots++
	if g.shots == g.chamber {
		g.state = Dead
		return g.outcome(0, session.Settlement{Delta: -g.bet})
	}

	last := RewardPerShot(g.bet)
	g.reward += last
	if g.shots == Chambers-1 {
		g.state = Survived
		return g.outcome(last, session.Settlement{Delta: g.reward, Gamble: true})
	}
	return g.outcome(last, session.Settlement{})
}

func (g *Game) outcome(last int64, s session.Settlement) *session.Outcome {
	return &session.Outcome{
		Terminal:   g.state != Armed,
		Settlement: s,
		Snapshot:   g.View(last),
	}
}

// View returns the current state with last as the most recent shot's reward.
func (g *Game) View(last int64) View {
	return View{
		Bet:        g.bet,
		Shots:      g.shots,
		Remaining:  Chambers - g.shots,
		LastReward: last,
		Reward:     g.reward,
		State:      g.state,
	}
}
