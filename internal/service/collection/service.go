package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/nadimalaa/devflow/backend/internal/domain"
	"github.com/nadimalaa/devflow/backend/internal/models"
	"github.com/nadimalaa/devflow/backend/internal/service/interaction"
)

type interactionRecorder interface {
	Create(ctx context.Context, in interaction.CreateInput) error
}

// Service manages a user's saved questions.
type Service struct {
	db           *gorm.DB
	interactions interactionRecorder
	log          *slog.Logger
}

func NewService(db *gorm.DB, interactions interactionRecorder, log *slog.Logger) *Service {
	return &Service{
		db:           db,
		interactions: interactions,
		log:          log.With("service", "collection"),
	}
}

// ToggleSave saves the question for the actor, or unsaves it if already
// saved. Saving earns the bookmark reputation credit; unsaving earns nothing.
func (s *Service) ToggleSave(ctx context.Context, actorID, questionID int) (bool, error) {
	if actorID == 0 {
		return false, domain.ErrUnauthorized
	}

	var q models.Question
	err := s.db.WithContext(ctx).Select("id", "author_id").First(&q, questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("question %d: %w", questionID, domain.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("load question %d: %w", questionID, err)
	}

	var existing models.Collection
	err = s.db.WithContext(ctx).
		Where("author_id = ? AND question_id = ?", actorID, questionID).
		First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Delete(&models.Collection{}, existing.ID).Error; err != nil {
			return false, fmt.Errorf("unsave question: %w", err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to save
	default:
		return false, fmt.Errorf("load collection: %w", err)
	}

	c := models.Collection{AuthorID: actorID, QuestionID: questionID}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return false, fmt.Errorf("save question: %w", err)
	}

	err = s.interactions.Create(ctx, interaction.CreateInput{
		ActorID:    actorID,
		Action:     models.ActionBookmark,
		TargetID:   questionID,
		TargetType: models.TargetQuestion,
		AuthorID:   q.AuthorID,
	})
	if err != nil {
		s.log.Warn("failed to record bookmark interaction",
			"question_id", questionID,
			"error", err,
		)
	}
	return true, nil
}

// HasSaved reports whether the actor has the question saved.
func (s *Service) HasSaved(ctx context.Context, actorID, questionID int) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Collection{}).
		Where("author_id = ? AND question_id = ?", actorID, questionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check collection: %w", err)
	}
	return count > 0, nil
}

// ListSaved returns the actor's saved questions, most recently saved first.
func (s *Service) ListSaved(ctx context.Context, actorID int) ([]models.Question, error) {
	if actorID == 0 {
		return nil, domain.ErrUnauthorized
	}
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN collections ON collections.question_id = questions.id").
		Where("collections.author_id = ?", actorID).
		Order("collections.created_at desc").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list saved questions: %w", err)
	}
	return questions, nil
}
