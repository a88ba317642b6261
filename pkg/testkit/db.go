package testkit

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/database"
)

// OpenDB returns a private in-memory sqlite database that is closed when the
// test ends.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testkit: open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
