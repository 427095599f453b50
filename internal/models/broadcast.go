package models

import "time"

// Broadcast lifecycle. A broadcast is created pending once an admin
// confirms the source message, moves to in_progress when the first
// recipient is processed and completes when no recipient is pending.
// Requeuing failed recipients revives it back to pending.
const (
	BroadcastDraft      = "draft"
	BroadcastPending    = "pending"
	BroadcastInProgress = "in_progress"
	BroadcastCompleted  = "completed"
)

// Per-recipient delivery status.
const (
	RecipientPending = "pending"
	RecipientSent    = "sent"
	RecipientFailed  = "failed"
)

// Broadcast is one fan-out campaign. FromChatID/MessageID identify the
// source message that gets copied to every recipient.
type Broadcast struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BotID         uint      `gorm:"not null" json:"bot_id"`
	Bot           Bot       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FromChatID    int64     `json:"from_chat_id"`
	MessageID     int       `json:"message_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `gorm:"default:draft" json:"status"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BroadcastRecipient is the unit of delivery state and retry: one row
// per (broadcast, user), transitioning pending -> sent | failed
// independently of its siblings.
type BroadcastRecipient struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BroadcastID  uint       `gorm:"uniqueIndex:idx_broadcast_user;not null" json:"broadcast_id"`
	Broadcast    Broadcast  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID       uint       `gorm:"uniqueIndex:idx_broadcast_user;not null" json:"user_id"`
	User         User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Status       string     `gorm:"default:pending;index" json:"status"`
	ErrorMessage string     `json:"error_message"`
	SentAt       *time.Time `json:"sent_at"`
}

// DeliveryReport is the derived per-broadcast accounting, recomputed on
// read and never stored.
type DeliveryReport struct {
	Total   int64 `json:"total"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Pending int64 `json:"pending"`
}
