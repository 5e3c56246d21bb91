// Package achievement evaluates which titles a profile has earned.
//
// Evaluation is pure apart from appending to the profile's title list; the
// caller is responsible for persisting the result.
package achievement

import "casino-bot/internal/model"

// Title identifiers.
const (
	Regular        = "regular"
	Resident       = "resident"
	Wealthy        = "wealthy"
	NationalBudget = "national-budget"
	BeginnersLuck  = "beginners-luck"
	Seasoned       = "seasoned"
	HighRoller     = "high-roller"
	VIP            = "vip"
)

// Rule is one achievement: a title, its unlock predicate and catalog text.
type Rule struct {
	Title       string
	Description string
	Hidden      bool
	Qualifies   func(p *model.Profile) bool
}

// rules is evaluated in order; newly earned titles are appended in this order.
var rules = []Rule{
	{Title: Regular, Description: "7-day login streak", Qualifies: func(p *model.Profile) bool { return p.Streak >= 7 }},
	{Title: Resident, Description: "30-day login streak", Qualifies: func(p *model.Profile) bool { return p.Streak >= 30 }},
	{Title: Wealthy, Description: "hold 100,000 grant", Qualifies: func(p *model.Profile) bool { return p.Money >= 100_000 }},
	{Title: NationalBudget, Description: "hold 10,000,000 grant", Qualifies: func(p *model.Profile) bool { return p.Money >= 10_000_000 }},
	{Title: BeginnersLuck, Description: "20 gambles", Qualifies: func(p *model.Profile) bool { return p.GambleCount >= 20 }},
	{Title: Seasoned, Description: "200 gambles", Qualifies: func(p *model.Profile) bool { return p.GambleCount >= 200 }},
	{Title: HighRoller, Description: "2000 gambles", Qualifies: func(p *model.Profile) bool { return p.GambleCount >= 2000 }},
	{
		Title:       VIP,
		Description: "affection 75 and 200 gambles",
		Hidden:      true,
		Qualifies:   func(p *model.Profile) bool { return p.Affection >= 75 && p.GambleCount >= 200 },
	},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Evaluate appends every title p now qualifies for but does not hold yet,
// and returns the newly added titles in table order.
func Evaluate(p *model.Profile) []string {
	var earned []string
	for _, r := range rules {
		if p.HasTitle(r.Title) || !r.Qualifies(p) {
			continue
		}
		p.Titles = append(p.Titles, r.Title)
		earned = append(earned, r.Title)
	}
	return earned
}

// HasVIP reports whether p holds the title that lifts stake caps.
func HasVIP(p *model.Profile) bool {
	return p.HasTitle(VIP)
}

// Entry is one line of the achievement catalog.
type Entry struct {
	Title       string
	Description string
	Earned      bool
}

// Catalog lists every achievement with its state for p. Hidden achievements
// keep their description masked until earned.
func Catalog(p *model.Profile) []Entry {
	entries := make([]Entry, 0, len(rules))
	for _, r := range rules {
		e := Entry{Title: r.Title, Description: r.Description, Earned: p.HasTitle(r.Title)}
		if r.Hidden && !e.Earned {
			e.Description = "???"
		}
		entries = append(entries, e)
	}
	return entries
}
