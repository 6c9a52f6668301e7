// Package testutil builds throwaway databases, Redis servers and fixtures for tests.
package testutil

import (
	"context" // Context for fixtures
	"testing" // Test helpers

	"feedback_board/internal/config" // Database settings
	"feedback_board/internal/db"     // Open and migrate
	"feedback_board/internal/domain" // Importing domain models
	"feedback_board/internal/utils"  // Password hashing

	"github.com/alicebob/miniredis/v2"    // In-process Redis
	"github.com/redis/go-redis/v9"        // Redis client
	"github.com/stretchr/testify/require" // Assertions
	"golang.org/x/crypto/bcrypt"          // Minimum bcrypt cost
	"gorm.io/gorm"                        // GORM ORM library
)

// TestSecret signs session tokens in tests
const TestSecret = "test-session-secret"

// TestCost keeps bcrypt fast in tests
const TestCost = bcrypt.MinCost

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Open(config.DBConfig{Driver: config.DriverSQLite, DSN: "file::memory:"}, true)
	require.NoError(t, err, "open test database")
	require.NoError(t, db.Migrate(conn), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// SetupTestRedis starts an in-process Redis server
func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// CreateTestUser inserts a user whose password is password
func CreateTestUser(t *testing.T, conn *gorm.DB, username, email, password string) domain.User {
	t.Helper()

	hash, err := utils.HashPassword(password, TestCost)
	require.NoError(t, err)
	user := domain.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, conn.WithContext(context.Background()).Create(&user).Error, "create test user")
	return user
}

// CreateTestFeedback inserts a feedback row owned by username
func CreateTestFeedback(t *testing.T, conn *gorm.DB, username, title, content string) domain.Feedback {
	t.Helper()

	fb := domain.Feedback{Title: title, Content: content, Username: username}
	require.NoError(t, conn.Create(&fb).Error, "create test feedback")
	return fb
}

// CountFeedback returns how many feedback rows username owns
func CountFeedback(t *testing.T, conn *gorm.DB, username string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, conn.Model(&domain.Feedback{}).Where("username = ?", username).Count(&n).Error)
	return n
}
