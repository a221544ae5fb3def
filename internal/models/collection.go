package models

import "time"

// Collection marks a question as saved by a user. One row per (author,
// question) pair.
type Collection struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	AuthorID   int       `gorm:"uniqueIndex:idx_collections_pair;not null" json:"author_id"`
	QuestionID int       `gorm:"uniqueIndex:idx_collections_pair;not null" json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}
