package collection

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nadimalaa/devflow/backend/internal/database/testhelper"
	"github.com/nadimalaa/devflow/backend/internal/domain"
	"github.com/nadimalaa/devflow/backend/internal/service/interaction"
)

func newTestService(db *gorm.DB) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(db, interaction.NewService(db, log), log)
}

func TestToggleSave_RoundTrip(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	author := testhelper.CreateUser(t, db)
	saver := testhelper.CreateUser(t, db)
	q := testhelper.CreateQuestion(t, db, author.ID)

	saved, err := svc.ToggleSave(ctx, saver.ID, q.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	has, err := svc.HasSaved(ctx, saver.ID, q.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// bookmark credits saver +1, author +2
	assert.Equal(t, 1, testhelper.Reputation(t, db, saver.ID))
	assert.Equal(t, 2, testhelper.Reputation(t, db, author.ID))

	saved, err = svc.ToggleSave(ctx, saver.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	has, err = svc.HasSaved(ctx, saver.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestToggleSave_MissingQuestion(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	saver := testhelper.CreateUser(t, db)

	_, err := svc.ToggleSave(context.Background(), saver.ID, 999999999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSaved(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	author := testhelper.CreateUser(t, db)
	saver := testhelper.CreateUser(t, db)
	q1 := testhelper.CreateQuestion(t, db, author.ID)
	q2 := testhelper.CreateQuestion(t, db, author.ID)

	_, err := svc.ToggleSave(ctx, saver.ID, q1.ID)
	require.NoError(t, err)
	_, err = svc.ToggleSave(ctx, saver.ID, q2.ID)
	require.NoError(t, err)

	questions, err := svc.ListSaved(ctx, saver.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	ids := []int{questions[0].ID, questions[1].ID}
	assert.ElementsMatch(t, []int{q1.ID, q2.ID}, ids)
}

func TestHasSaved_Anonymous(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	has, err := svc.HasSaved(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.False(t, has)
}
