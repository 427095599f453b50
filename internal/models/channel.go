package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Channel validation errors. They block the offending create or update
// at configuration time and are never raised on the check path.
var (
	ErrPrivateChannelNeedsLink  = errors.New("a private channel must have an invite link")
	ErrPublicChannelNeedsName   = errors.New("a public channel must have a username")
	ErrChannelIdentifierMissing = errors.New("channel identifier is required")
)

// SubscribeChannel is one channel-subscription requirement. The set of
// active channels of a bot defines its current gate; membership is
// checked live against Telegram on every gated action.
type SubscribeChannel struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ChannelID  string `gorm:"not null" json:"channel_id"`
	Username   string `json:"username"`
	InviteLink string `json:"invite_link"`
	Private    bool   `json:"private"`
	Active     bool   `gorm:"default:true" json:"active"`
	BotID      uint   `gorm:"not null" json:"bot_id"`
	Bot        Bot    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate enforces the private/public field invariant.
func (c *SubscribeChannel) Validate() error {
	if c.ChannelID == "" {
		return ErrChannelIdentifierMissing
	}
	if c.Private && c.InviteLink == "" {
		return ErrPrivateChannelNeedsLink
	}
	if !c.Private && c.Username == "" {
		return ErrPublicChannelNeedsName
	}
	return nil
}

// BeforeSave strips link and @ prefixes so the username is stored bare.
func (c *SubscribeChannel) BeforeSave(tx *gorm.DB) error {
	c.Username = strings.TrimPrefix(c.Username, "https://t.me/")
	c.Username = strings.TrimPrefix(c.Username, "@")
	return nil
}

// Link returns the URL a user follows to join the channel.
func (c *SubscribeChannel) Link() string {
	if c.Private {
		return c.InviteLink
	}
	return "https://t.me/" + c.Username
}

// Title returns the human-readable channel reference for prompts.
func (c *SubscribeChannel) Title() string {
	if c.Username != "" {
		return "@" + c.Username
	}
	return c.ChannelID
}
