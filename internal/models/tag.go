package models

import "time"

// Tag names are unique case-insensitively (enforced by a functional index on
// LOWER(name), see database.Initialize); the stored casing is whatever the
// first creator submitted. Questions is a reference counter kept in lockstep
// with the tag_questions join rows; a tag whose count reaches zero is
// deleted, never kept as a zero-count orphan.
type Tag struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Questions int       `gorm:"not null;default:0" json:"questions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagQuestion is the many-to-many join row between tags and questions.
type TagQuestion struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	TagID      int       `gorm:"uniqueIndex:idx_tag_questions_pair;not null" json:"tag_id"`
	QuestionID int       `gorm:"uniqueIndex:idx_tag_questions_pair;not null" json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}
