// Package testutil provides shared test doubles and fixtures for blog tests.
package testutil

import (
	"testing"
	"time"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/models"

	"gorm.io/gorm"
)

// NewSQLiteDB returns a migrated in-memory database that lives for the duration of the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{Env: "test", DBDriver: config.DriverSQLite, DBPath: ":memory:"}
	db, err := database.Open(database.SQLiteDialector(":memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreatePost inserts a post and fails the test on error.
func CreatePost(t testing.TB, db *gorm.DB, title, content, category string) *models.Post {
	t.Helper()

	post := &models.Post{Title: title, Content: content, Category: category}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// CreateComment inserts a comment on postID at ts and fails the test on error.
func CreateComment(t testing.TB, db *gorm.DB, postID uint, parentID *uint, name, content string, ts time.Time) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		PostID:    postID,
		ParentID:  parentID,
		Name:      name,
		Content:   content,
		Timestamp: ts.UTC(),
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return comment
}
