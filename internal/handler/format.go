package handler

import (
	"fmt"
	"strconv"
	"strings"

	"casino-bot/internal/achievement"
	"casino-bot/internal/game"
	"casino-bot/internal/game/blackjack"
	"casino-bot/internal/game/russianroulette"
	"casino-bot/internal/model"
	"casino-bot/internal/service"
)

// parseBet reads a bet argument.
func parseBet(arg string) (int64, error) {
	bet, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || bet < 1 {
		return 0, game.ErrInvalidBet
	}
	return bet, nil
}

func withTitles(msg string, titles []string) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for _, t := range titles {
		sb.WriteString("\n🏅 New title: ")
		sb.WriteString(t)
	}
	return sb.String()
}

func formatBalance(p *model.Profile) string {
	return fmt.Sprintf("💰 Balance: %d", p.Money)
}

func formatDaily(r *service.DailyResult) string {
	msg := fmt.Sprintf("📅 Daily bonus: +%d\n🔥 Streak: %d days\n%s", r.Bonus, r.Streak, formatBalance(r.Profile))
	return withTitles(msg, r.NewTitles)
}

func formatStatus(r *service.StatusReport) string {
	p := r.Profile
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 Player %d\n", p.UserID)
	fmt.Fprintf(&sb, "%s\n", formatBalance(p))
	fmt.Fprintf(&sb, "💗 Affection: %d\n", p.Affection)
	fmt.Fprintf(&sb, "🔥 Streak: %d\n", p.Streak)
	fmt.Fprintf(&sb, "🎲 Games played: %d\n", p.GambleCount)
	fmt.Fprintf(&sb, "📆 Logins: %d\n", p.TotalLogins)

	titles := "none"
	if len(p.Titles) > 0 {
		titles = strings.Join(p.Titles, ", ")
	}
	fmt.Fprintf(&sb, "🏅 Titles: %s", titles)

	if len(r.Recent) > 0 {
		sb.WriteString("\n\n📜 Recent:")
		for _, tx := range r.Recent {
			fmt.Fprintf(&sb, "\n%+d %s", tx.Amount, tx.Type)
		}
	}
	return sb.String()
}

func formatCatalog(entries []achievement.Entry) string {
	var sb strings.Builder
	sb.WriteString("🏆 Achievements")
	for _, e := range entries {
		mark := "⬜"
		if e.Earned {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "\n%s %s: %s", mark, e.Title, e.Description)
	}
	return sb.String()
}

func formatPlay(r *service.PlayResult) string {
	msg := r.Result.Description + "\n" + formatBalance(r.Profile)
	return withTitles(msg, r.NewTitles)
}

func formatRussianRoulette(v russianroulette.View) string {
	switch v.State {
	case russianroulette.Dead:
		return fmt.Sprintf("💥 Bang! You lost %d and the %d you had built up.", v.Bet, v.Reward)
	case russianroulette.Survived:
		return fmt.Sprintf("🎉 You survived every shot! +%d", v.Reward)
	case russianroulette.Quit:
		return fmt.Sprintf("🏳️ You walked away. The %d you had built up is gone.", v.Reward)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔫 Russian roulette | bet %d\n", v.Bet)
	if v.LastReward > 0 {
		fmt.Fprintf(&sb, "💨 Click. +%d\n", v.LastReward)
	}
	fmt.Fprintf(&sb, "Shots fired: %d, chambers left: %d\n", v.Shots, v.Remaining)
	fmt.Fprintf(&sb, "Reward so far: %d", v.Reward)
	return sb.String()
}

func formatCards(cards []int) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c == blackjack.Ace {
			parts[i] = "A"
		} else {
			parts[i] = strconv.Itoa(c)
		}
	}
	return strings.Join(parts, " ")
}

func formatBlackjack(v blackjack.View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🃏 Blackjack | bet %d\n", v.Bet)
	fmt.Fprintf(&sb, "You: %s (%d)\n", formatCards(v.Player), v.PlayerValue)
	if v.Phase == blackjack.PlayerTurn {
		fmt.Fprintf(&sb, "Dealer: %s ?", formatCards(v.Dealer))
		return sb.String()
	}
	fmt.Fprintf(&sb, "Dealer: %s (%d)\n", formatCards(v.Dealer), v.DealerValue)

	switch v.Result {
	case blackjack.Win:
		fmt.Fprintf(&sb, "🎉 You win! +%d", v.Delta)
	case blackjack.Push:
		sb.WriteString("🤝 Push, your bet is returned")
	default:
		if v.Phase == blackjack.Bust {
			fmt.Fprintf(&sb, "💥 Bust! You lost %d", -v.Delta)
		} else {
			fmt.Fprintf(&sb, "😢 Dealer wins. You lost %d", -v.Delta)
		}
	}
	return sb.String()
}

func formatHelp(games []game.Game) string {
	var sb strings.Builder
	sb.WriteString("🎰 Casino bot\n\n")
	sb.WriteString("/daily - claim the daily bonus\n")
	sb.WriteString("/status - show your profile\n")
	sb.WriteString("/achievement - list titles\n")
	for _, g := range games {
		fmt.Fprintf(&sb, "/%s - %s\n", g.Command(), g.Description())
	}
	sb.WriteString("/russianroulette <bet> - fire until you quit or lose\n")
	sb.WriteString("/blackjack <bet> - beat the dealer to 21")
	return sb.String()
}
