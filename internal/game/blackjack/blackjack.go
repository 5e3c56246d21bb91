// Package blackjack implements heads-up blackjack against a dealer who
// stands on 17.
package blackjack

import (
	"errors"
	"fmt"

	"casino-bot/internal/game"
	"casino-bot/internal/model"
	"casino-bot/internal/session"
)

// Blackjack limits.
const (
	Target     = 21
	DealerStop = 17
	Ace        = 11
)

// ErrDeckExhausted is returned if a draw finds the deck empty.
var ErrDeckExhausted = errors.New("deck exhausted")

// composition is one suit-equivalent; aces count as 11.
var composition = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, Ace}

// Phase of a hand.
type Phase string

const (
	PlayerTurn Phase = "player_turn"
	Bust       Phase = "bust"
	Resolved   Phase = "resolved"
)

// Result of a finished hand.
type Result string

const (
	Win  Result = "win"
	Lose Result = "lose"
	Push Result = "push"
)

// NewDeck returns four copies of the composition in order.
func NewDeck() []int {
	deck := make([]int, 0, len(composition)*4)
	for i := 0; i < 4; i++ {
		deck = append(deck, composition...)
	}
	return deck
}

// HandValue sums cards, then counts aces as 1 one at a time while the total
// exceeds 21.
func HandValue(cards []int) int {
	total, aces := 0, 0
	for _, c := range cards {
		total += c
		if c == Ace {
			aces++
		}
	}
	for total > Target && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// Stake returns the stake rules for dealing a hand. vip lifts the cap.
func Stake(maxBet int64) game.Stake {
	if maxBet <= 0 {
		maxBet = game.DefaultMaxBet
	}
	return game.Stake{Max: maxBet, VIPUnbounded: true, RequireFunds: true}
}

// Validate checks that p may be dealt a hand for bet.
func Validate(p *model.Profile, bet, maxBet int64) error {
	return Stake(maxBet).Validate(p, bet)
}

// View is the state reported after each action. While the player is still
// acting only the dealer's first card is shown.
type View struct {
	Bet         int64
	Player      []int
	PlayerValue int
	Dealer      []int
	DealerValue int
	Phase       Phase
	Result      Result
	Delta       int64
}

// Game is one hand. It implements session.Machine and is only mutated
// through Apply.
type Game struct {
	bet    int64
	deck   []int
	player []int
	dealer []int
	phase  Phase
	result Result
}

// New shuffles a fresh deck with rng and deals two cards each, player first.
func New(bet int64, rng game.Rand) (*Game, error) {
	deck := NewDeck()
	game.OrDefault(rng).Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return Deal(bet, deck)
}

// Deal starts a hand from deck, drawing from the end.
func Deal(bet int64, deck []int) (*Game, error) {
	g := &Game{bet: bet, deck: deck, phase: PlayerTurn}
	for _, hand := range []*[]int{&g.player, &g.player, &g.dealer, &g.dealer} {
		c, err := g.draw()
		if err != nil {
			return nil, err
		}
		*hand = append(*hand, c)
	}
	return g, nil
}

func (g *Game) draw() (int, error) {
	if len(g.deck) == 0 {
		return 0, ErrDeckExhausted
	}
	c := g.deck[len(g.deck)-1]
	g.deck = g.deck[:len(g.deck)-1]
	return c, nil
}

// Kind implements session.Machine.
func (g *Game) Kind() session.Kind {
	return session.KindBlackjack
}

// Apply implements session.Machine.
func (g *Game) Apply(a session.Action) (*session.Outcome, error) {
	if g.phase != PlayerTurn {
		return nil, fmt.Errorf("%w: hand is %s", game.ErrInvalidAction, g.phase)
	}

	switch a {
	case session.ActionHit:
		return g.hit()
	case session.ActionStand:
		return g.stand()
	default:
		return nil, fmt.Errorf("%w: %s", game.ErrInvalidAction, a)
	}
}

func (g *Game) hit() (*session.Outcome, error) {
	c, err := g.draw()
	if err != nil {
		return nil, err
	}
	g.player = append(g.player, c)
	if HandValue(g.player) > Target {
		g.phase = Bust
		g.result = Lose
		return g.outcome(-g.bet), nil
	}
	return g.outcome(0), nil
}

func (g *Game) stand() (*session.Outcome, error) {
	for HandValue(g.dealer) < DealerStop {
		c, err := g.draw()
		if err != nil {
			return nil, err
		}
		g.dealer = append(g.dealer, c)
	}

	player, dealer := HandValue(g.player), HandValue(g.dealer)
	g.phase = Resolved
	switch {
	case dealer > Target || player > dealer:
		g.result = Win
		return g.outcome(g.bet), nil
	case player == dealer:
		g.result = Push
		return g.outcome(0), nil
	default:
		g.result = Lose
		return g.outcome(-g.bet), nil
	}
}

func (g *Game) outcome(delta int64) *session.Outcome {
	done := g.phase != PlayerTurn
	out := &session.Outcome{Terminal: done, Snapshot: g.view(delta)}
	if done {
		out.Settlement = session.Settlement{Delta: delta, Gamble: true}
	}
	return out
}

// View returns the current state of the hand.
func (g *Game) View() View {
	return g.view(0)
}

func (g *Game) view(delta int64) View {
	v := View{
		Bet:         g.bet,
		Player:      append([]int(nil), g.player...),
		PlayerValue: HandValue(g.player),
		Phase:       g.phase,
		Result:      g.result,
		Delta:       delta,
	}
	if g.phase == PlayerTurn {
		v.Dealer = []int{g.dealer[0]}
	} else {
		v.Dealer = append([]int(nil), g.dealer...)
	}
	v.DealerValue = HandValue(v.Dealer)
	return v
}
