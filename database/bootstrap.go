// database/bootstrap.go
package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farmops/entities"
)

// OpenSQLite opens the store or exits the process; used by the server entrypoint.
func OpenSQLite(path string) *gorm.DB {
	db, err := Open(path)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	return db
}

func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	// SQLite allows one writer; a single connection also serialises stage commits.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entities.GrowCycle{}, &entities.DeploymentLog{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := backfillRevisions(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// backfillRevisions gives rows written before the revision column existed a
// concrete revision, otherwise "revision = ?" never matches them and every
// commit would report a conflict.
func backfillRevisions(db *gorm.DB) error {
	res := db.Exec(`UPDATE grow_cycles SET revision = 0 WHERE revision IS NULL`)
	if res.Error != nil {
		return fmt.Errorf("backfill revision: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("[db] backfilled revision on %d grow cycles", res.RowsAffected)
	}
	return nil
}
