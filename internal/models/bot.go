package models

import "time"

// Bot represents one Telegram bot managed by the system. Name and
// Username are filled from the Telegram API by the provisioning service
// at creation time; the token is the only operator-supplied field.
type Bot struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Token      string `gorm:"uniqueIndex;not null" json:"-"`
	WebhookURL string `json:"webhook_url"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
