package roulette

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/achievement"
	"casino-bot/internal/game"
	"casino-bot/internal/game/gametest"
	"casino-bot/internal/model"
)

func TestColourOf(t *testing.T) {
	reds, blacks := 0, 0
	for n := 1; n <= 36; n++ {
		switch ColourOf(n) {
		case Red:
			reds++
		case Black:
			blacks++
		default:
			t.Fatalf("pocket %d is green", n)
		}
	}
	assert.Equal(t, 18, reds)
	assert.Equal(t, 18, blacks)
	assert.Equal(t, Green, ColourOf(0))
	assert.Equal(t, Red, ColourOf(1))
	assert.Equal(t, Black, ColourOf(2))
	assert.Equal(t, Black, ColourOf(11))
	assert.Equal(t, Red, ColourOf(36))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  Choice
	}{
		{"red", Choice{Colour: Red}},
		{"BLACK", Choice{Colour: Black}},
		{"緑", Choice{Colour: Green}},
		{"赤", Choice{Colour: Red}},
		{"0", Choice{Number: 0}},
		{"17", Choice{Number: 17}},
		{"36", Choice{Number: 36}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChoice(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "purple", "37", "-1", "1.5"} {
		_, err := ParseChoice(bad)
		assert.ErrorIs(t, err, game.ErrInvalidChoice, bad)
	}
}

func TestCalculatePayout(t *testing.T) {
	tests := []struct {
		name   string
		choice Choice
		result int
		want   int64
	}{
		{"red hit", Choice{Colour: Red}, 1, 200},
		{"red miss", Choice{Colour: Red}, 2, -100},
		{"green hit", Choice{Colour: Green}, 0, 200},
		{"number hit", Choice{Number: 17}, 17, 3500},
		{"zero hit", Choice{Number: 0}, 0, 3500},
		{"number miss", Choice{Number: 17}, 18, -100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePayout(tt.choice, tt.result, 100))
		})
	}
}

func TestPlay(t *testing.T) {
	g := New(0, gametest.NewRand(17))
	res, err := g.Play(context.Background(), model.NewProfile(1), 10, map[string]any{game.ParamChoice: "17"})
	require.NoError(t, err)
	assert.Equal(t, int64(350), res.Payout)
	assert.Equal(t, 17, res.Details["result"])
}

func TestValidateBet(t *testing.T) {
	g := New(0, gametest.NewRand())
	params := map[string]any{game.ParamChoice: "red"}

	assert.ErrorIs(t, g.ValidateBet(model.NewProfile(1), 0, params), game.ErrInvalidBet)
	assert.ErrorIs(t, g.ValidateBet(model.NewProfile(1), 256, params), game.ErrBetTooHigh)
	assert.ErrorIs(t, g.ValidateBet(&model.Profile{Money: 5}, 10, params), game.ErrInsufficientFunds)
	assert.ErrorIs(t, g.ValidateBet(model.NewProfile(1), 10, map[string]any{game.ParamChoice: "blue"}), game.ErrInvalidChoice)

	vip := &model.Profile{Money: 5000, Titles: []string{achievement.VIP}}
	assert.NoError(t, g.ValidateBet(vip, 1000, params))
}

// TestPayoutExclusive checks that a spin pays 2b only on a colour match, 35b
// only on a number match, and -b otherwise.
func TestPayoutExclusive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bet := rapid.Int64Range(1, 255).Draw(rt, "bet")
		result := rapid.IntRange(0, 36).Draw(rt, "result")
		var choice Choice
		if rapid.Bool().Draw(rt, "numeric") {
			choice = Choice{Number: rapid.IntRange(0, 36).Draw(rt, "number")}
		} else {
			choice = Choice{Colour: rapid.SampledFrom([]Colour{Red, Black, Green}).Draw(rt, "colour")}
		}

		payout := CalculatePayout(choice, result, bet)
		switch payout {
		case 2 * bet:
			if choice.IsNumber() || choice.Colour != ColourOf(result) {
				rt.Fatalf("colour payout for %v on %d", choice, result)
			}
		case 35 * bet:
			if !choice.IsNumber() || choice.Number != result {
				rt.Fatalf("number payout for %v on %d", choice, result)
			}
		case -bet:
			if (choice.IsNumber() && choice.Number == result) || (!choice.IsNumber() && choice.Colour == ColourOf(result)) {
				rt.Fatalf("loss for winning %v on %d", choice, result)
			}
		default:
			rt.Fatalf("unexpected payout %d", payout)
		}
	})
}
