// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/aliciamunhoz/kanban-next/internal/model"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.BoardAccess{},
		&model.Column{},
		&model.Card{},
	))
	return db
}

// SeedUser inserts a user whose password is "password123".
func SeedUser(t *testing.T, db *gorm.DB, email, name string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{Email: email, Name: name, HashedPassword: string(hash)}
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedBoard(t *testing.T, db *gorm.DB, owner *model.User, name string) *model.Board {
	t.Helper()

	board := &model.Board{Name: name, OwnerID: owner.ID}
	require.NoError(t, db.Create(board).Error)
	return board
}
