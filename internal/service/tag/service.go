package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nadimalaa/devflow/backend/internal/domain"
	"github.com/nadimalaa/devflow/backend/internal/models"
)

// Service keeps Tag.Questions counters and tag_questions join rows consistent
// with question tag sets. The mutating methods take the caller's open
// transaction: tag maintenance is always part of the question mutation it
// belongs to, so a failing step aborts the whole edit.
type Service struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewService(db *gorm.DB, log *slog.Logger) *Service {
	return &Service{db: db, log: log.With("service", "tag")}
}

// Attach links every named tag to the question, find-or-creating tags by
// case-insensitive name. A found tag keeps its stored casing and gains one
// reference; a new tag starts at one.
func (s *Service) Attach(tx *gorm.DB, questionID int, names []string) error {
	for _, name := range normalizeNames(names) {
		var t models.Tag
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("LOWER(name) = LOWER(?)", name).
			First(&t).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			t = models.Tag{Name: name, Questions: 1}
			if err := tx.Create(&t).Error; err != nil {
				if isUniqueViolation(err) {
					// lost a create race on LOWER(name); caller may retry
					return fmt.Errorf("tag %q: %w", name, domain.ErrConflict)
				}
				return fmt.Errorf("create tag %q: %w", name, err)
			}
		case err != nil:
			return fmt.Errorf("find tag %q: %w", name, err)
		default:
			err := tx.Model(&models.Tag{}).
				Where("id = ?", t.ID).
				UpdateColumn("questions", gorm.Expr("questions + 1")).Error
			if err != nil {
				return fmt.Errorf("increment tag %q: %w", name, err)
			}
		}

		tq := models.TagQuestion{TagID: t.ID, QuestionID: questionID}
		if err := tx.Create(&tq).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("tag %q already on question %d: %w", name, questionID, domain.ErrConflict)
			}
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

// Sync reshapes the question's tag set to exactly the desired names:
// additions behave like Attach, removed tags lose one reference, and a tag
// whose only reference was this question is deleted outright.
func (s *Service) Sync(tx *gorm.DB, questionID int, desired []string) error {
	current, err := lockQuestionTags(tx, questionID)
	if err != nil {
		return err
	}

	currentNames := make([]string, len(current))
	byLowerName := make(map[string]models.Tag, len(current))
	for i, t := range current {
		currentNames[i] = t.Name
		byLowerName[strings.ToLower(t.Name)] = t
	}

	toAdd, toRemove := diffTags(currentNames, normalizeNames(desired))

	if err := s.Attach(tx, questionID, toAdd); err != nil {
		return err
	}

	if len(toRemove) == 0 {
		return nil
	}
	removeIDs := make([]int, len(toRemove))
	for i, name := range toRemove {
		removeIDs[i] = byLowerName[strings.ToLower(name)].ID
	}
	return detachTags(tx, questionID, removeIDs)
}

// Release drops every tag reference held by the question, pruning tags it was
// the last reference of. Called when the question is deleted.
func (s *Service) Release(tx *gorm.DB, questionID int) error {
	current, err := lockQuestionTags(tx, questionID)
	if err != nil {
		return err
	}
	if len(current) == 0 {
		return nil
	}
	ids := make([]int, len(current))
	for i, t := range current {
		ids[i] = t.ID
	}
	return detachTags(tx, questionID, ids)
}

// detachTags removes the question's references to the given tags. Tags down
// to their last reference are deleted before the remaining ones are
// decremented, so no zero-count tag row ever becomes visible.
func detachTags(tx *gorm.DB, questionID int, tagIDs []int) error {
	err := tx.Where("id IN ? AND questions = 1", tagIDs).Delete(&models.Tag{}).Error
	if err != nil {
		return fmt.Errorf("prune tags: %w", err)
	}

	err = tx.Model(&models.Tag{}).
		Where("id IN ?", tagIDs).
		UpdateColumn("questions", gorm.Expr("questions - 1")).Error
	if err != nil {
		return fmt.Errorf("decrement tags: %w", err)
	}

	err = tx.Where("question_id = ? AND tag_id IN ?", questionID, tagIDs).
		Delete(&models.TagQuestion{}).Error
	if err != nil {
		return fmt.Errorf("unlink tags: %w", err)
	}
	return nil
}

// lockQuestionTags loads the question's tags FOR UPDATE so concurrent edits
// of the same question serialize. Rows are locked in id order; two edits of
// different questions sharing tags must never acquire the same locks in
// opposite order.
func lockQuestionTags(tx *gorm.DB, questionID int) ([]models.Tag, error) {
	var tags []models.Tag
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "tags"}}).
		Joins("JOIN tag_questions ON tag_questions.tag_id = tags.id").
		Where("tag_questions.question_id = ?", questionID).
		Order("tags.id").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("load question %d tags: %w", questionID, err)
	}
	return tags, nil
}

// ForQuestion returns the tags currently on a question.
func (s *Service) ForQuestion(ctx context.Context, questionID int) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN tag_questions ON tag_questions.tag_id = tags.id").
		Where("tag_questions.question_id = ?", questionID).
		Order("tags.name asc").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("load question %d tags: %w", questionID, err)
	}
	return tags, nil
}

// List returns all tags, most-referenced first.
func (s *Service) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Order("questions desc, name asc").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Questions returns the questions referencing a tag, newest first.
func (s *Service) Questions(ctx context.Context, tagID int) (models.Tag, []models.Question, error) {
	var t models.Tag
	err := s.db.WithContext(ctx).First(&t, tagID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, nil, fmt.Errorf("tag %d: %w", tagID, domain.ErrNotFound)
	}
	if err != nil {
		return t, nil, fmt.Errorf("load tag %d: %w", tagID, err)
	}

	var questions []models.Question
	err = s.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN tag_questions ON tag_questions.question_id = questions.id").
		Where("tag_questions.tag_id = ?", tagID).
		Order("questions.created_at desc").
		Find(&questions).Error
	if err != nil {
		return t, nil, fmt.Errorf("load tag %d questions: %w", tagID, err)
	}
	return t, questions, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
