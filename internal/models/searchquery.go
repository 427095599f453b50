package models

import "time"

// SearchQuery is the append-only audit record written for every search
// call, whatever its outcome. Rows are never mutated or deleted.
type SearchQuery struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null" json:"user_id"`
	User         User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QueryText    string `gorm:"size:500" json:"query_text"`
	FoundResults bool   `json:"found_results"`
	IsDeepSearch bool   `json:"is_deep_search"`
	CreatedAt    time.Time
}
