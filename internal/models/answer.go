package models

import "time"

type Answer struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	QuestionID int    `gorm:"index;not null" json:"question_id"`
	Content    string `gorm:"not null" json:"content"`
	AuthorID   int    `json:"author_id"`
	User       User   `gorm:"foreignKey:AuthorID" json:"user"`

	Upvotes   int `gorm:"default:0" json:"upvotes"`
	Downvotes int `gorm:"default:0" json:"downvotes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content string `json:"content" binding:"required,min=10"`
}
