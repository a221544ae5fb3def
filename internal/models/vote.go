package models

import "time"

// Votable target kinds.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// Vote directions.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// ValidTargetType reports whether s names a votable content kind.
func ValidTargetType(s string) bool {
	return s == TargetQuestion || s == TargetAnswer
}

// ValidVoteType reports whether s names a vote direction.
func ValidVoteType(s string) bool {
	return s == VoteUp || s == VoteDown
}

// Vote records one user's current stance on one target. The compound unique
// index makes (author, target) a natural key: at most one row per pair.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	AuthorID   int       `gorm:"uniqueIndex:idx_votes_author_target;not null" json:"author_id"`
	TargetID   int       `gorm:"uniqueIndex:idx_votes_author_target;not null" json:"target_id"`
	TargetType string    `gorm:"uniqueIndex:idx_votes_author_target;not null" json:"target_type"`
	VoteType   string    `gorm:"not null" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CastVoteRequest struct {
	TargetID   int    `json:"target_id" binding:"required"`
	TargetType string `json:"target_type" binding:"required,oneof=question answer"`
	VoteType   string `json:"vote_type" binding:"required,oneof=upvote downvote"`
}
