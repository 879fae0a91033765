package repository

import (
	"path/filepath"
	"testing"

	"github.com/jskelly/legisync/internal/config"
	"gorm.io/gorm"
)

// newTestDB opens a throwaway SQLite database with migrations applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return db
}
