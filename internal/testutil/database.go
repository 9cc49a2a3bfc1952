// Package testutil holds shared fixtures for tests that need a real
// database. It must only be imported from _test.go files.
package testutil

import (
	"testing"
	"time"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with every model
// migrated. It is closed when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Name: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Name: username, IsAdmin: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, db.Create(group).Error)
	return group
}

// CreatePost inserts a post with an explicit creation time. group may be nil.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: at.UTC()}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(post).Error)
	return post
}

func Follow(t *testing.T, db *gorm.DB, user, author *models.User) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error)
}

// Base is a fixed instant posts are created relative to.
var Base = time.Date(2021, 3, 12, 12, 0, 0, 0, time.UTC)
