package handlers

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/nadimalaa/devflow/backend/internal/service/answer"
	"github.com/nadimalaa/devflow/backend/internal/service/collection"
	"github.com/nadimalaa/devflow/backend/internal/service/interaction"
	"github.com/nadimalaa/devflow/backend/internal/service/question"
	"github.com/nadimalaa/devflow/backend/internal/service/tag"
	"github.com/nadimalaa/devflow/backend/internal/service/vote"
)

// Handler combines all handler types
type Handler struct {
	Auth       *AuthHandler
	Question   *QuestionHandler
	Answer     *AnswerHandler
	Vote       *VoteHandler
	Tag        *TagHandler
	Collection *CollectionHandler
}

// NewHandler wires the service graph once and hands each handler its
// dependencies.
func NewHandler(db *gorm.DB, log *slog.Logger, jwtSecret []byte) *Handler {
	interactions := interaction.NewService(db, log)
	tags := tag.NewService(db, log)
	votes := vote.NewService(db, interactions, log)
	questions := question.NewService(db, tags, interactions, log)
	answers := answer.NewService(db, interactions, log)
	collections := collection.NewService(db, interactions, log)

	return &Handler{
		Auth:       NewAuthHandler(db, jwtSecret),
		Question:   NewQuestionHandler(questions),
		Answer:     NewAnswerHandler(answers),
		Vote:       NewVoteHandler(votes),
		Tag:        NewTagHandler(tags),
		Collection: NewCollectionHandler(collections),
	}
}
