package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/model"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		want    []string
	}{
		{name: "fresh profile", profile: *model.NewProfile(1), want: nil},
		{name: "week streak", profile: model.Profile{Streak: 7}, want: []string{Regular}},
		{name: "month streak", profile: model.Profile{Streak: 30}, want: []string{Regular, Resident}},
		{name: "wealthy", profile: model.Profile{Money: 100_000}, want: []string{Wealthy}},
		{name: "national budget", profile: model.Profile{Money: 10_000_000}, want: []string{Wealthy, NationalBudget}},
		{name: "twenty gambles", profile: model.Profile{GambleCount: 20}, want: []string{BeginnersLuck}},
		{name: "high roller", profile: model.Profile{GambleCount: 2000}, want: []string{BeginnersLuck, Seasoned, HighRoller}},
		{name: "affection without gambles", profile: model.Profile{Affection: 100, GambleCount: 199}, want: []string{BeginnersLuck}},
		{name: "vip", profile: model.Profile{Affection: 75, GambleCount: 200}, want: []string{BeginnersLuck, Seasoned, VIP}},
		{
			name:    "already held",
			profile: model.Profile{Streak: 7, GambleCount: 20, Titles: []string{Regular}},
			want:    []string{BeginnersLuck},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.profile
			got := Evaluate(&p)
			assert.Equal(t, tt.want, got)
			for _, title := range tt.want {
				assert.True(t, p.HasTitle(title))
			}
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	p := &model.Profile{Streak: 30, Money: 200_000, GambleCount: 250, Affection: 90}
	first := Evaluate(p)
	require.NotEmpty(t, first)

	before := append([]string(nil), p.Titles...)
	assert.Empty(t, Evaluate(p))
	assert.Equal(t, before, p.Titles)
}

func TestHasVIP(t *testing.T) {
	assert.False(t, HasVIP(model.NewProfile(1)))
	assert.True(t, HasVIP(&model.Profile{Titles: []string{VIP}}))
}

func TestCatalogMasksHidden(t *testing.T) {
	entries := Catalog(model.NewProfile(1))
	require.Len(t, entries, len(Rules()))

	last := entries[len(entries)-1]
	assert.Equal(t, VIP, last.Title)
	assert.Equal(t, "???", last.Description)
	assert.False(t, last.Earned)

	entries = Catalog(&model.Profile{Titles: []string{VIP, Regular}})
	assert.True(t, entries[0].Earned)
	assert.NotEqual(t, "???", entries[len(entries)-1].Description)
	assert.True(t, entries[len(entries)-1].Earned)
}

// TestTitlesMonotone checks that across any sequence of profile changes and
// evaluations the title list never shrinks and never holds duplicates.
func TestTitlesMonotone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := model.NewProfile(1)
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")

		for i := 0; i < steps; i++ {
			p.Money = rapid.Int64Range(-1000, 20_000_000).Draw(rt, "money")
			p.Streak = rapid.IntRange(0, 40).Draw(rt, "streak")
			p.Affection = rapid.Int64Range(0, 100).Draw(rt, "affection")
			p.GambleCount += rapid.Int64Range(0, 500).Draw(rt, "gambles")

			before := append([]string(nil), p.Titles...)
			earned := Evaluate(p)

			if len(p.Titles) != len(before)+len(earned) {
				rt.Fatalf("titles grew by %d, expected %d", len(p.Titles)-len(before), len(earned))
			}
			for j, title := range before {
				if p.Titles[j] != title {
					rt.Fatalf("existing title %q moved or changed", title)
				}
			}
			seen := make(map[string]bool)
			for _, title := range p.Titles {
				if seen[title] {
					rt.Fatalf("duplicate title %q", title)
				}
				seen[title] = true
			}
		}
	})
}
