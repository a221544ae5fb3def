// Package testhelper starts a shared PostgreSQL container for integration
// tests. The container is created once per test binary and lives until the
// process exits; every test gets its own connection pool.
package testhelper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/nadimalaa/devflow/backend/internal/database"
	"github.com/nadimalaa/devflow/backend/internal/models"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error

	seq atomic.Int64
)

// SetupTestDB starts the shared container on first use, applies the schema
// and returns a gorm handle connected to it. The pool is closed via t.Cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	once.Do(func() {
		sharedDSN, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to set up test DB: %v", initErr)
	}

	db, err := database.Open(sharedDSN)
	if err != nil {
		t.Fatalf("testhelper: failed to connect: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db.DB()
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("connection string: %w", err)
	}

	db, err := database.Open(dsn)
	if err != nil {
		return "", fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return "", fmt.Errorf("initialize schema: %w", err)
	}
	return dsn, nil
}

// CreateUser inserts a user with a unique username and returns it. The schema
// is shared across the test binary, so fixtures never reuse names.
func CreateUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	n := seq.Add(1)
	u := models.User{
		Username:     fmt.Sprintf("user%d_%d", n, time.Now().UnixNano()),
		Email:        fmt.Sprintf("user%d_%d@example.com", n, time.Now().UnixNano()),
		AuthProvider: "email",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("testhelper: create user: %v", err)
	}
	return u
}

// CreateQuestion inserts a bare question owned by authorID.
func CreateQuestion(t *testing.T, db *gorm.DB, authorID int) models.Question {
	t.Helper()

	q := models.Question{
		Title:    fmt.Sprintf("How do I test %d?", seq.Add(1)),
		Content:  "A question body long enough to be plausible.",
		AuthorID: authorID,
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("testhelper: create question: %v", err)
	}
	return q
}

// CreateAnswer inserts an answer to questionID owned by authorID.
func CreateAnswer(t *testing.T, db *gorm.DB, questionID, authorID int) models.Answer {
	t.Helper()

	a := models.Answer{
		QuestionID: questionID,
		Content:    "An answer body long enough to be plausible.",
		AuthorID:   authorID,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("testhelper: create answer: %v", err)
	}
	return a
}

// Reputation reloads a user's current reputation total.
func Reputation(t *testing.T, db *gorm.DB, userID int) int {
	t.Helper()

	var u models.User
	if err := db.Select("reputation").First(&u, userID).Error; err != nil {
		t.Fatalf("testhelper: load user %d: %v", userID, err)
	}
	return u.Reputation
}
