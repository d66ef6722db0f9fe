package repository

import (
	"path/filepath"
	"testing"

	"github.com/vitorcpx/hrsync-worker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the full schema. The
// production schema lives in SQL migrations; AutoMigrate from the models is
// equivalent for what these tests touch.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.SyncJob{},
		&models.Company{},
		&models.Employee{},
		&models.Absenteeism{},
		&models.SOCCredential{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
