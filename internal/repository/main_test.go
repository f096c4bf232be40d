package repository

import (
	"testing"
	"time"

	"murmur/internal/models"
	"murmur/internal/testkit"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	return testkit.OpenSQLite(t)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	return testkit.CreateUser(t, db, username)
}

// createPostAt inserts a post with a fixed creation time so ordering is deterministic.
func createPostAt(t *testing.T, db *gorm.DB, userID uint, title string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: title + " body", UserID: userID, CreatedAt: at}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// fixedTime returns baseTime shifted by the given number of minutes.
func fixedTime(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}
