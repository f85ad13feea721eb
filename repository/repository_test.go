package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/models"
)

// newTestDB opens a private in-memory database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: "file::memory:",
		LogLevel:    "silent",
	}, models.All()...)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func mustUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func mustGroup(t *testing.T, db *gorm.DB, title, slug string) models.Group {
	t.Helper()
	g := models.Group{Title: title, Slug: slug}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return g
}

var clock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// mustPost creates posts with strictly increasing publication times.
func mustPost(t *testing.T, db *gorm.DB, author models.User, text string, group *models.Group) models.Post {
	t.Helper()
	clock = clock.Add(time.Minute)
	p := models.Post{AuthorID: author.ID, Text: text, CreatedAt: clock}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func ids(posts []models.Post) []uint {
	out := make([]uint, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func sameIDs(got []models.Post, want ...models.Post) error {
	if len(got) != len(want) {
		return fmt.Errorf("got ids %v, want %d posts", ids(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			return fmt.Errorf("got ids %v, want %v", ids(got), ids(want))
		}
	}
	return nil
}

var bg = context.Background()
