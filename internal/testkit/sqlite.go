// Package testkit provides shared fixtures for package tests.
package testkit

import (
	"fmt"
	"testing"

	"murmur/internal/database"
	"murmur/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a migrated, private in-memory database.
// A single connection is used so every statement sees the same memory DB;
// callers must not touch the outer handle while a transaction is open.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreatePost inserts a post authored by userID.
func CreatePost(t *testing.T, db *gorm.DB, userID uint, title string) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:   title,
		Content: title + " body",
		UserID:  userID,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return p
}

// Follow makes follower follow followee.
func Follow(t *testing.T, db *gorm.DB, follower, followee uint) {
	t.Helper()
	if err := db.Create(&models.Follow{FollowerID: follower, FolloweeID: followee}).Error; err != nil {
		t.Fatalf("follow %d -> %d: %v", follower, followee, err)
	}
}
