package interaction

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/nadimalaa/devflow/backend/internal/domain"
	"github.com/nadimalaa/devflow/backend/internal/models"
)

// Service records reputation-qualifying interactions and applies the
// resulting reputation deltas. The interaction row and the reputation
// updates always commit in one transaction.
type Service struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewService(db *gorm.DB, log *slog.Logger) *Service {
	return &Service{db: db, log: log.With("service", "interaction")}
}

// CreateInput describes one occurrence of a qualifying action. AuthorID is
// the owner of the acted-upon content; when it equals ActorID only the
// performer delta is applied.
type CreateInput struct {
	ActorID    int
	Action     string
	TargetID   int
	TargetType string
	AuthorID   int
}

// Create appends the interaction log record and applies the point deltas to
// both participants, all-or-nothing.
func (s *Service) Create(ctx context.Context, in CreateInput) error {
	if in.ActorID == 0 {
		return domain.ErrUnauthorized
	}
	if !models.ValidTargetType(in.TargetType) {
		return domain.NewValidationError("target_type", "must be question or answer")
	}

	pts, ok := PointsFor(in.Action, in.TargetType)
	if !ok {
		return domain.NewValidationError("action", "not a reputation-qualifying action")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := models.Interaction{
			UserID:     in.ActorID,
			Action:     in.Action,
			TargetID:   in.TargetID,
			TargetType: in.TargetType,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("record interaction: %w", err)
		}

		if in.ActorID == in.AuthorID {
			// Same identity on both sides: apply the performer delta once.
			return addReputation(tx, in.ActorID, pts.Performer)
		}

		if err := addReputation(tx, in.ActorID, pts.Performer); err != nil {
			return err
		}
		return addReputation(tx, in.AuthorID, pts.Author)
	})
}

// addReputation applies a delta with a SQL-side increment. A missing user is
// not an error: the update matches nothing and the log record still stands.
func addReputation(tx *gorm.DB, userID, delta int) error {
	err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("update reputation of user %d: %w", userID, err)
	}
	return nil
}

// ListForUser returns a user's interaction history, newest first.
func (s *Service) ListForUser(ctx context.Context, userID, limit int) ([]models.Interaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var recs []models.Interaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return recs, nil
}
