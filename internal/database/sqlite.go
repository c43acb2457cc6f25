package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/school-console/internal/models"
)

// ConnectSQLite opens the SQLite database at path, creating it when missing.
func ConnectSQLite(path string) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	return db, nil
}

// OpenActivityStore connects to Postgres when dsn is set and falls back to the
// local SQLite file otherwise. The activity table is migrated on open.
func OpenActivityStore(dsn, sqlitePath string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if strings.TrimSpace(dsn) != "" {
		db, err = ConnectPostgres(dsn)
	} else {
		db, err = ConnectSQLite(sqlitePath)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.ActivityLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate activity store: %w", err)
	}

	return db, nil
}
