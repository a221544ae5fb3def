package models

import "time"

// Reputation-qualifying actions.
const (
	ActionPost     = "post"
	ActionUpvote   = "upvote"
	ActionDownvote = "downvote"
	ActionDelete   = "delete"
	ActionView     = "view"
	ActionBookmark = "bookmark"
)

// Interaction is an append-only log record of a reputation-qualifying action.
// Rows are never updated; they are only deleted when their target is deleted.
type Interaction struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"index;not null" json:"user_id"`
	Action     string    `gorm:"not null" json:"action"`
	TargetID   int       `gorm:"index;not null" json:"target_id"`
	TargetType string    `gorm:"not null" json:"target_type"`
	CreatedAt  time.Time `json:"created_at"`
}
