package question

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

type tagMaintainer interface {
	Attach(tx *gorm.DB, questionID int, names []string) error
	Sync(tx *gorm.DB, questionID int, desired []string) error
	Release(tx *gorm.DB, questionID int) error
	ForQuestion(ctx context.Context, questionID int) ([]models.Tag, error)
}

type interactionRecorder interface {
	Create(ctx context.Context, in interaction.CreateInput) error
}

// Service owns question lifecycle: create/edit/delete with their tag-set and
// counter side effects, plus the read paths the UI needs.
type Service struct {
	db           *gorm.DB
	tags         tagMaintainer
	interactions interactionRecorder
	log          *slog.Logger
}

func NewService(db *gorm.DB, tags tagMaintainer, interactions interactionRecorder, log *slog.Logger) *Service {
	return &Service{
		db:           db,
		tags:         tags,
		interactions: interactions,
		log:          log.With("service", "question"),
	}
}

// Detail is a question plus its resolved tag set.
type Detail struct {
	models.Question
	Tags []models.Tag `json:"tags"`
}

// Create inserts the question and attaches its tag set in one transaction,
// then credits the author for posting.
func (s *Service) Create(ctx context.Context, actorID int, in models.CreateQuestionRequest) (*Detail, error) {
	if actorID == 0 {
		return nil, domain.ErrUnauthorized
	}

	q := models.Question{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: actorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&q).Error; err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		return s.tags.Attach(tx, q.ID, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	s.recordInteraction(ctx, interaction.CreateInput{
		ActorID:    actorID,
		Action:     models.ActionPost,
		TargetID:   q.ID,
		TargetType: models.TargetQuestion,
		AuthorID:   actorID,
	})

	return s.Get(ctx, q.ID)
}

// Edit updates title/content and reshapes the tag set, owner-only. No partial
// tag-set application is ever visible.
func (s *Service) Edit(ctx context.Context, actorID, questionID int, in models.EditQuestionRequest) (*Detail, error) {
	if actorID == 0 {
		return nil, domain.ErrUnauthorized
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := lockQuestion(tx, questionID)
		if err != nil {
			return err
		}
		if q.AuthorID != actorID {
			return fmt.Errorf("question %d: %w", questionID, domain.ErrForbidden)
		}

		if q.Title != in.Title || q.Content != in.Content {
			err := tx.Model(&models.Question{}).
				Where("id = ?", questionID).
				Updates(map[string]any{"title": in.Title, "content": in.Content}).Error
			if err != nil {
				return fmt.Errorf("update question: %w", err)
			}
		}

		return s.tags.Sync(tx, questionID, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, questionID)
}

// Delete removes the question and everything hanging off it (tag
// references, votes on the question and its answers, the answers themselves,
// saved-collection rows and interaction log records) in one transaction,
// then applies the deletion reputation penalty.
func (s *Service) Delete(ctx context.Context, actorID, questionID int) error {
	if actorID == 0 {
		return domain.ErrUnauthorized
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := lockQuestion(tx, questionID)
		if err != nil {
			return err
		}
		if q.AuthorID != actorID {
			return fmt.Errorf("question %d: %w", questionID, domain.ErrForbidden)
		}

		if err := s.tags.Release(tx, questionID); err != nil {
			return err
		}

		var answerIDs []int
		err = tx.Model(&models.Answer{}).
			Where("question_id = ?", questionID).
			Pluck("id", &answerIDs).Error
		if err != nil {
			return fmt.Errorf("list answers: %w", err)
		}

		if len(answerIDs) > 0 {
			err = tx.Where("target_type = ? AND target_id IN ?", models.TargetAnswer, answerIDs).
				Delete(&models.Vote{}).Error
			if err != nil {
				return fmt.Errorf("delete answer votes: %w", err)
			}
			err = tx.Where("target_type = ? AND target_id IN ?", models.TargetAnswer, answerIDs).
				Delete(&models.Interaction{}).Error
			if err != nil {
				return fmt.Errorf("delete answer interactions: %w", err)
			}
			err = tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error
			if err != nil {
				return fmt.Errorf("delete answers: %w", err)
			}
		}

		err = tx.Where("target_type = ? AND target_id = ?", models.TargetQuestion, questionID).
			Delete(&models.Vote{}).Error
		if err != nil {
			return fmt.Errorf("delete question votes: %w", err)
		}
		err = tx.Where("target_type = ? AND target_id = ?", models.TargetQuestion, questionID).
			Delete(&models.Interaction{}).Error
		if err != nil {
			return fmt.Errorf("delete question interactions: %w", err)
		}
		err = tx.Where("question_id = ?", questionID).Delete(&models.Collection{}).Error
		if err != nil {
			return fmt.Errorf("delete collections: %w", err)
		}

		if err := tx.Delete(&models.Question{}, questionID).Error; err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordInteraction(ctx, interaction.CreateInput{
		ActorID:    actorID,
		Action:     models.ActionDelete,
		TargetID:   questionID,
		TargetType: models.TargetQuestion,
		AuthorID:   actorID,
	})
	return nil
}

// Get returns one question with author and tags.
func (s *Service) Get(ctx context.Context, questionID int) (*Detail, error) {
	var q models.Question
	err := s.db.WithContext(ctx).Preload("User").First(&q, questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %d: %w", questionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load question %d: %w", questionID, err)
	}

	tags, err := s.tags.ForQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return &Detail{Question: q, Tags: tags}, nil
}

// ListParams narrows and orders the question list.
type ListParams struct {
	Page     int
	PageSize int
	Query    string
	Filter   string // newest | unanswered | popular
}

// List returns a page of questions plus whether more pages exist.
func (s *Service) List(ctx context.Context, p ListParams) ([]Detail, bool, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 10
	}

	q := s.db.WithContext(ctx).Model(&models.Question{})
	if p.Query != "" {
		pattern := "%" + p.Query + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	switch p.Filter {
	case "unanswered":
		q = q.Where("answers = 0").Order("created_at desc")
	case "popular":
		q = q.Order("upvotes desc")
	default:
		q = q.Order("created_at desc")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, false, fmt.Errorf("count questions: %w", err)
	}

	offset := (p.Page - 1) * p.PageSize
	var questions []models.Question
	err := q.Preload("User").Offset(offset).Limit(p.PageSize).Find(&questions).Error
	if err != nil {
		return nil, false, fmt.Errorf("list questions: %w", err)
	}

	details := make([]Detail, 0, len(questions))
	for _, question := range questions {
		tags, err := s.tags.ForQuestion(ctx, question.ID)
		if err != nil {
			return nil, false, err
		}
		details = append(details, Detail{Question: question, Tags: tags})
	}

	isNext := total > int64(offset+len(questions))
	return details, isNext, nil
}

// IncrementViews bumps the view counter. A signed-in viewer also earns the
// view reputation credit; anonymous views only count.
func (s *Service) IncrementViews(ctx context.Context, actorID, questionID int) (int, error) {
	res := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", questionID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("question %d: %w", questionID, domain.ErrNotFound)
	}

	var q models.Question
	if err := s.db.WithContext(ctx).Select("views", "author_id").First(&q, questionID).Error; err != nil {
		return 0, fmt.Errorf("load question %d: %w", questionID, err)
	}

	if actorID != 0 {
		s.recordInteraction(ctx, interaction.CreateInput{
			ActorID:    actorID,
			Action:     models.ActionView,
			TargetID:   questionID,
			TargetType: models.TargetQuestion,
			AuthorID:   q.AuthorID,
		})
	}
	return q.Views, nil
}

func (s *Service) recordInteraction(ctx context.Context, in interaction.CreateInput) {
	if err := s.interactions.Create(ctx, in); err != nil {
		s.log.Warn("failed to record interaction",
			"action", in.Action,
			"target_id", in.TargetID,
			"target_type", in.TargetType,
			"error", err,
		)
	}
}

func lockQuestion(tx *gorm.DB, questionID int) (*models.Question, error) {
	var q models.Question
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&q, questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %d: %w", questionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load question %d: %w", questionID, err)
	}
	return &q, nil
}
