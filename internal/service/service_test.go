package service

import (
	"strings"
	"testing"

	"technestia/internal/config"
	"technestia/internal/db"
	"technestia/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory SQLite database per test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Skipf("skip: sqlite not available: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, RefreshTokenTTLDays: 7}
}

func mustCreate(t *testing.T, gdb *gorm.DB, value interface{}) {
	t.Helper()
	if err := gdb.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func seedUser(t *testing.T, gdb *gorm.DB, username, email string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, Name: username}
	mustCreate(t, gdb, u)
	return u
}

func seedProject(t *testing.T, gdb *gorm.DB, ownerID uint, title string, public bool) *models.Project {
	t.Helper()
	p := &models.Project{UserID: ownerID, Title: title, Status: models.ProjectIdea, IsPublic: public}
	mustCreate(t, gdb, p)
	return p
}
