package models

import "time"

// Student is the exam taker behind an authenticated token subject. Rows are
// provisioned on first submission, so only ID is guaranteed to be set.
type Student struct {
	ID          uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Email       *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	FirstSeenAt time.Time `gorm:"autoCreateTime" json:"first_seen_at"`
}
