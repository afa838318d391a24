// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"DuoChat/pkg/database"

	"gorm.io/gorm"
)

// NewDB returns a migrated SQLite database living in t.TempDir(). A
// single connection keeps concurrent tests from tripping over SQLite's
// writer lock while still interleaving statements.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat_test.db")
	db, err := database.Open("sqlite", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
