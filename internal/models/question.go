package models

import "time"

type Question struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"not null" json:"content"`
	AuthorID int    `json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`

	// Cached aggregates. Must always equal the corresponding ledger counts;
	// only ever mutated with SQL-side increments inside a transaction.
	Upvotes   int `gorm:"default:0" json:"upvotes"`
	Downvotes int `gorm:"default:0" json:"downvotes"`
	Answers   int `gorm:"default:0" json:"answers"`
	Views     int `gorm:"default:0" json:"views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateQuestionRequest struct {
	Title   string   `json:"title" binding:"required,max=130"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"required,min=1,max=5,dive,required,max=30"`
}

type EditQuestionRequest struct {
	Title   string   `json:"title" binding:"required,max=130"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"required,min=1,max=5,dive,required,max=30"`
}
