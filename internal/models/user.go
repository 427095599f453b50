package models

import (
	"strings"
	"time"
)

// User represents one person interacting with one bot. The same Telegram
// account talking to two bots yields two independent rows; the
// (telegram_id, bot_id) pair is unique.
type User struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	TelegramID int64 `gorm:"uniqueIndex:idx_users_telegram_bot;not null" json:"telegram_id"`
	BotID      uint  `gorm:"uniqueIndex:idx_users_telegram_bot;not null" json:"bot_id"`
	Bot        Bot   `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`

	IsAdmin   bool `json:"is_admin"`
	IsBlocked bool `json:"is_blocked"`
	Left      bool `json:"left"`

	// StockLanguage comes from the Telegram client locale on every
	// contact; SelectedLanguage is an explicit override and stays nil
	// until the user picks one.
	StockLanguage    string  `json:"stock_language"`
	SelectedLanguage *string `json:"selected_language"`

	Deeplink   string    `json:"deeplink"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// EffectiveLanguage resolves the language used for every reply:
// the explicit selection when present, the client locale otherwise.
func (u *User) EffectiveLanguage() string {
	if u.SelectedLanguage != nil && *u.SelectedLanguage != "" {
		return *u.SelectedLanguage
	}
	return u.StockLanguage
}
