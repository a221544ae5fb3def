package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nadimalaa/devflow/backend/internal/domain"
	"github.com/nadimalaa/devflow/backend/internal/models"
	"github.com/nadimalaa/devflow/backend/internal/service/interaction"
)

// Status is an actor's stance on a target. Unlike a boolean pair, "no vote"
// is a first-class value, not a failure.
type Status string

const (
	StatusNone      Status = "none"
	StatusUpvoted   Status = "upvoted"
	StatusDownvoted Status = "downvoted"
)

type interactionRecorder interface {
	Create(ctx context.Context, in interaction.CreateInput) error
}

// Service owns the vote ledger and the vote tallies on votable content.
// Counters are only ever touched here, inside the same transaction as the
// ledger row they mirror.
type Service struct {
	db           *gorm.DB
	interactions interactionRecorder
	log          *slog.Logger
}

func NewService(db *gorm.DB, interactions interactionRecorder, log *slog.Logger) *Service {
	return &Service{
		db:           db,
		interactions: interactions,
		log:          log.With("service", "vote"),
	}
}

// Cast applies one vote request from actorID against a target. The ledger
// mutation and the counter changes commit atomically; on any failure nothing
// is written. After commit, one interaction of the requested direction is
// recorded for reputation; retractions credit the same direction as casts.
func (s *Service) Cast(ctx context.Context, actorID, targetID int, targetType, voteType string) error {
	if actorID == 0 {
		return domain.ErrUnauthorized
	}
	if !models.ValidTargetType(targetType) {
		return domain.NewValidationError("target_type", "must be question or answer")
	}
	if !models.ValidVoteType(voteType) {
		return domain.NewValidationError("vote_type", "must be upvote or downvote")
	}

	var authorID int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		authorID, err = lockTarget(tx, targetID, targetType)
		if err != nil {
			return err
		}

		var existing models.Vote
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("author_id = ? AND target_id = ? AND target_type = ?", actorID, targetID, targetType).
			First(&existing).Error

		current := ""
		switch {
		case err == nil:
			current = existing.VoteType
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first vote on this target
		default:
			return fmt.Errorf("load vote: %w", err)
		}

		plan := planTransition(current, voteType)

		switch plan.op {
		case opCreate:
			v := models.Vote{
				AuthorID:   actorID,
				TargetID:   targetID,
				TargetType: targetType,
				VoteType:   voteType,
			}
			if err := tx.Create(&v).Error; err != nil {
				if isUniqueViolation(err) {
					// Another request for the same (actor, target) won the
					// race; the caller may retry.
					return fmt.Errorf("vote already recorded: %w", domain.ErrConflict)
				}
				return fmt.Errorf("create vote: %w", err)
			}
		case opDelete:
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return fmt.Errorf("delete vote: %w", err)
			}
		case opSwitch:
			err := tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				Update("vote_type", voteType).Error
			if err != nil {
				return fmt.Errorf("switch vote: %w", err)
			}
		}

		for _, ch := range plan.changes {
			if err := applyCounter(tx, targetID, targetType, ch.voteType, ch.delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Reputation crediting is decoupled from the vote transaction; the vote
	// stands even if recording the interaction fails.
	err = s.interactions.Create(ctx, interaction.CreateInput{
		ActorID:    actorID,
		Action:     voteType,
		TargetID:   targetID,
		TargetType: targetType,
		AuthorID:   authorID,
	})
	if err != nil {
		s.log.Warn("failed to record vote interaction",
			"actor_id", actorID,
			"target_id", targetID,
			"target_type", targetType,
			"error", err,
		)
	}

	return nil
}

// Status reports the actor's current stance on a target. An unauthenticated
// actor or a target without a vote yields StatusNone.
func (s *Service) Status(ctx context.Context, actorID, targetID int, targetType string) (Status, error) {
	if actorID == 0 {
		return StatusNone, nil
	}
	if !models.ValidTargetType(targetType) {
		return StatusNone, domain.NewValidationError("target_type", "must be question or answer")
	}

	var v models.Vote
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND target_id = ? AND target_type = ?", actorID, targetID, targetType).
		First(&v).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return StatusNone, nil
	case err != nil:
		return StatusNone, fmt.Errorf("load vote: %w", err)
	}

	if v.VoteType == models.VoteDown {
		return StatusDownvoted, nil
	}
	return StatusUpvoted, nil
}

// lockTarget locks the target's row for the duration of the transaction and
// resolves its author, so concurrent votes on the same target serialize their
// counter increments.
func lockTarget(tx *gorm.DB, targetID int, targetType string) (int, error) {
	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})

	var authorID int
	var err error
	switch targetType {
	case models.TargetQuestion:
		var q models.Question
		err = locked.Select("id", "author_id").First(&q, targetID).Error
		authorID = q.AuthorID
	case models.TargetAnswer:
		var a models.Answer
		err = locked.Select("id", "author_id").First(&a, targetID).Error
		authorID = a.AuthorID
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%s %d: %w", targetType, targetID, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("load %s %d: %w", targetType, targetID, err)
	}
	return authorID, nil
}

// applyCounter moves one tally with a SQL-side increment, never a
// read-modify-write from Go.
func applyCounter(tx *gorm.DB, targetID int, targetType, voteType string, delta int) error {
	column := counterColumn(voteType)

	var model any
	switch targetType {
	case models.TargetAnswer:
		model = &models.Answer{}
	default:
		model = &models.Question{}
	}

	res := tx.Model(model).
		Where("id = ?", targetID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update %s.%s: %w", targetType, column, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", targetType, targetID, domain.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
