package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nadimalaa/devflow/backend/internal/domain"
	"github.com/nadimalaa/devflow/backend/internal/models"
	"github.com/nadimalaa/devflow/backend/internal/service/interaction"
)

type interactionRecorder interface {
	Create(ctx context.Context, in interaction.CreateInput) error
}

// Service owns answer lifecycle, keeping the parent question's answer counter
// in lockstep with the answer rows.
type Service struct {
	db           *gorm.DB
	interactions interactionRecorder
	log          *slog.Logger
}

func NewService(db *gorm.DB, interactions interactionRecorder, log *slog.Logger) *Service {
	return &Service{
		db:           db,
		interactions: interactions,
		log:          log.With("service", "answer"),
	}
}

// Create inserts the answer and bumps the question's answer count in one
// transaction, then credits the author for posting.
func (s *Service) Create(ctx context.Context, actorID, questionID int, content string) (*models.Answer, error) {
	if actorID == 0 {
		return nil, domain.ErrUnauthorized
	}

	a := models.Answer{
		QuestionID: questionID,
		AuthorID:   actorID,
		Content:    content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			UpdateColumn("answers", gorm.Expr("answers + 1"))
		if res.Error != nil {
			return fmt.Errorf("increment answer count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("question %d: %w", questionID, domain.ErrNotFound)
		}

		if err := tx.Create(&a).Error; err != nil {
			return fmt.Errorf("create answer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordInteraction(ctx, interaction.CreateInput{
		ActorID:    actorID,
		Action:     models.ActionPost,
		TargetID:   a.ID,
		TargetType: models.TargetAnswer,
		AuthorID:   actorID,
	})

	if err := s.db.WithContext(ctx).Preload("User").First(&a, a.ID).Error; err != nil {
		return nil, fmt.Errorf("load answer %d: %w", a.ID, err)
	}
	return &a, nil
}

// Delete removes an answer, its votes and interaction records, and restores
// the question's answer count, owner-only.
func (s *Service) Delete(ctx context.Context, actorID, answerID int) error {
	if actorID == 0 {
		return domain.ErrUnauthorized
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Answer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, answerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("answer %d: %w", answerID, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load answer %d: %w", answerID, err)
		}
		if a.AuthorID != actorID {
			return fmt.Errorf("answer %d: %w", answerID, domain.ErrForbidden)
		}

		err = tx.Model(&models.Question{}).
			Where("id = ?", a.QuestionID).
			UpdateColumn("answers", gorm.Expr("answers - 1")).Error
		if err != nil {
			return fmt.Errorf("decrement answer count: %w", err)
		}

		err = tx.Where("target_type = ? AND target_id = ?", models.TargetAnswer, answerID).
			Delete(&models.Vote{}).Error
		if err != nil {
			return fmt.Errorf("delete answer votes: %w", err)
		}
		err = tx.Where("target_type = ? AND target_id = ?", models.TargetAnswer, answerID).
			Delete(&models.Interaction{}).Error
		if err != nil {
			return fmt.Errorf("delete answer interactions: %w", err)
		}

		if err := tx.Delete(&models.Answer{}, answerID).Error; err != nil {
			return fmt.Errorf("delete answer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordInteraction(ctx, interaction.CreateInput{
		ActorID:    actorID,
		Action:     models.ActionDelete,
		TargetID:   answerID,
		TargetType: models.TargetAnswer,
		AuthorID:   actorID,
	})
	return nil
}

// ListForQuestion returns a question's answers, newest first.
func (s *Service) ListForQuestion(ctx context.Context, questionID int) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("question_id = ?", questionID).
		Order("created_at desc").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

func (s *Service) recordInteraction(ctx context.Context, in interaction.CreateInput) {
	if err := s.interactions.Create(ctx, in); err != nil {
		s.log.Warn("failed to record interaction",
			"action", in.Action,
			"target_id", in.TargetID,
			"error", err,
		)
	}
}
