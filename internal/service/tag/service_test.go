package tag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nadimalaa/devflow/backend/internal/database/testhelper"
	"github.com/nadimalaa/devflow/backend/internal/domain"
	"github.com/nadimalaa/devflow/backend/internal/models"
)

func newTestService(db *gorm.DB) *Service {
	return NewService(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// uniqueName avoids collisions in the shared tags table, which is unique by
// LOWER(name) across the whole test binary.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func findTag(t *testing.T, db *gorm.DB, name string) (models.Tag, bool) {
	t.Helper()
	var tag models.Tag
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if err == gorm.ErrRecordNotFound {
		return tag, false
	}
	require.NoError(t, err)
	return tag, true
}

func TestAttach_CreatesAndIncrements(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q1 := testhelper.CreateQuestion(t, db, user.ID)
	q2 := testhelper.CreateQuestion(t, db, user.ID)

	name := uniqueName("golang")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q1.ID, []string{name})
	}))

	tag, ok := findTag(t, db, name)
	require.True(t, ok)
	assert.Equal(t, name, tag.Name)
	assert.Equal(t, 1, tag.Questions)

	// second question reuses the tag and bumps the count
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q2.ID, []string{name})
	}))

	tag, ok = findTag(t, db, name)
	require.True(t, ok)
	assert.Equal(t, 2, tag.Questions)
}

func TestAttach_CaseInsensitiveReuseKeepsStoredCasing(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q1 := testhelper.CreateQuestion(t, db, user.ID)
	q2 := testhelper.CreateQuestion(t, db, user.ID)

	name := uniqueName("GraphQL")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q1.ID, []string{name})
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q2.ID, []string{"gRAPHql" + name[len("GraphQL"):]})
	}))

	tag, ok := findTag(t, db, name)
	require.True(t, ok)
	assert.Equal(t, name, tag.Name) // first creator's casing wins
	assert.Equal(t, 2, tag.Questions)

	// one tag row, two join rows
	var joins int64
	require.NoError(t, db.Model(&models.TagQuestion{}).Where("tag_id = ?", tag.ID).Count(&joins).Error)
	assert.EqualValues(t, 2, joins)
}

func TestSync_AddAndRemove(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q := testhelper.CreateQuestion(t, db, user.ID)

	keep := uniqueName("keep")
	old := uniqueName("old")
	fresh := uniqueName("fresh")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q.ID, []string{keep, old})
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Sync(tx, q.ID, []string{keep, fresh})
	}))

	tags, err := svc.ForQuestion(context.Background(), q.ID)
	require.NoError(t, err)
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.ElementsMatch(t, []string{keep, fresh}, names)

	// old had only this reference, so it is gone entirely
	_, ok := findTag(t, db, old)
	assert.False(t, ok)
}

func TestSync_RemovalOnlyDecrementsSharedTags(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q1 := testhelper.CreateQuestion(t, db, user.ID)
	q2 := testhelper.CreateQuestion(t, db, user.ID)

	shared := uniqueName("shared")
	replacement := uniqueName("replacement")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q1.ID, []string{shared})
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q2.ID, []string{shared})
	}))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Sync(tx, q1.ID, []string{replacement})
	}))

	tag, ok := findTag(t, db, shared)
	require.True(t, ok, "a still-referenced tag must survive")
	assert.Equal(t, 1, tag.Questions)
}

func TestSync_CaseOnlyChangeIsNoop(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q := testhelper.CreateQuestion(t, db, user.ID)

	name := uniqueName("Docker")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q.ID, []string{name})
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Sync(tx, q.ID, []string{"dOCKER" + name[len("Docker"):]})
	}))

	tag, ok := findTag(t, db, name)
	require.True(t, ok)
	assert.Equal(t, name, tag.Name)
	assert.Equal(t, 1, tag.Questions)
}

func TestRelease_PrunesLastReference(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q1 := testhelper.CreateQuestion(t, db, user.ID)
	q2 := testhelper.CreateQuestion(t, db, user.ID)

	only := uniqueName("only")
	both := uniqueName("both")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q1.ID, []string{only, both})
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q2.ID, []string{both})
	}))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Release(tx, q1.ID)
	}))

	_, ok := findTag(t, db, only)
	assert.False(t, ok, "sole reference released, tag must be pruned")

	tag, ok := findTag(t, db, both)
	require.True(t, ok)
	assert.Equal(t, 1, tag.Questions)

	var joins int64
	require.NoError(t, db.Model(&models.TagQuestion{}).Where("question_id = ?", q1.ID).Count(&joins).Error)
	assert.Zero(t, joins)
}

func TestAttach_NormalizesNames(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q := testhelper.CreateQuestion(t, db, user.ID)

	name := uniqueName("padded")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q.ID, []string{"  " + name + "  ", "", "   "})
	}))

	tags, err := svc.ForQuestion(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, name, tags[0].Name)
}

func TestAttach_DuplicateCasedNamesCountOnce(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q := testhelper.CreateQuestion(t, db, user.ID)

	name := uniqueName("dup")

	// one submission listing the same tag twice with different casing is a
	// single reference, not a conflict
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q.ID, []string{name, "DUP" + name[len("dup"):]})
	}))

	tag, ok := findTag(t, db, name)
	require.True(t, ok)
	assert.Equal(t, name, tag.Name)
	assert.Equal(t, 1, tag.Questions)

	var joins int64
	require.NoError(t, db.Model(&models.TagQuestion{}).Where("tag_id = ?", tag.ID).Count(&joins).Error)
	assert.EqualValues(t, 1, joins)
}

func TestLockQuestionTags_IDOrder(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	user := testhelper.CreateUser(t, db)
	q := testhelper.CreateQuestion(t, db, user.ID)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Attach(tx, q.ID, []string{uniqueName("c"), uniqueName("a"), uniqueName("b")})
	}))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		tags, err := lockQuestionTags(tx, q.ID)
		if err != nil {
			return err
		}
		require.Len(t, tags, 3)
		for i := 1; i < len(tags); i++ {
			assert.Less(t, tags[i-1].ID, tags[i].ID, "lock order must be ascending by id")
		}
		return nil
	}))
}

func TestQuestions_UnknownTag(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := newTestService(db)

	_, _, err := svc.Questions(context.Background(), 999999999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
