// Package model defines the data models for the casino bot.
package model

import "time"

// Profile defaults applied when a user is seen for the first time.
const (
	DefaultMoney     int64 = 500
	DefaultAffection int64 = 0
)

// Profile is a user's persistent wallet and progress record.
// Money is expected to stay non-negative, but only stake validation enforces it.
type Profile struct {
	UserID      int64     `db:"user_id"`
	Money       int64     `db:"money"`
	Affection   int64     `db:"affection"`
	Streak      int       `db:"streak"`
	LastDaily   Date      `db:"last_daily"`
	Titles      []string  `db:"titles"`
	GambleCount int64     `db:"gamble_count"`
	TotalLogins int64     `db:"total_logins"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NewProfile returns a profile populated with first-access defaults.
func NewProfile(userID int64) *Profile {
	return &Profile{
		UserID:    userID,
		Money:     DefaultMoney,
		Affection: DefaultAffection,
		Titles:    []string{},
	}
}

// HasTitle reports whether the profile already holds title.
func (p *Profile) HasTitle(title string) bool {
	for _, t := range p.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without aliasing the titles slice.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Titles = append([]string(nil), p.Titles...)
	if c.Titles == nil {
		c.Titles = []string{}
	}
	return &c
}

// Transaction is one journal row recording a balance change.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeDaily           = "daily"            // Daily login bonus
	TxTypeCoinflip        = "coinflip"         // Coinflip result
	TxTypeRoulette        = "roulette"         // Roulette wheel result
	TxTypeSlot            = "slot"             // Slot machine result
	TxTypeBlackjack       = "blackjack"        // Blackjack resolution
	TxTypeRussianRoulette = "russian_roulette" // Russian roulette death or survival
)

// NewTransaction builds a journal entry for userID.
func NewTransaction(userID, amount int64, txType, description string) *Transaction {
	tx := &Transaction{
		UserID: userID,
		Amount: amount,
		Type:   txType,
	}
	if description != "" {
		tx.Description = &description
	}
	return tx
}
