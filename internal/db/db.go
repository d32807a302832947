package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/supply/internal/config"
	_ "modernc.org/sqlite"
)

const (
	// FileName is the database file created under the base directory.
	FileName = "supply.db"

	// ExportsDirName is the default import/export directory under the base directory.
	ExportsDirName = "exports"
)

// migrations are applied in order; migrations[i] moves user_version from i to i+1.
var migrations = []string{
	// 1: one row per stored document, value is its JSON encoding
	`CREATE TABLE IF NOT EXISTS kv (
	  key        TEXT PRIMARY KEY,
	  value      TEXT NOT NULL,
	  updated_at INTEGER NOT NULL
	);`,
}

// CurrentSchemaVersion is the user_version after all migrations have run.
var CurrentSchemaVersion = len(migrations)

// Init opens the SQLite store at baseDir/supply.db, creating baseDir and its
// exports directory (mode 0700) when missing, and migrates the schema.
func Init(baseDir string) (*sql.DB, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, ExportsDirName)} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		_ = os.Chmod(dir, 0700)
	}

	dbPath := filepath.Join(baseDir, FileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	mode, err := pragma[string](db, "journal_mode")
	if err == nil && mode != "wal" {
		err = fmt.Errorf("expected WAL mode, got %s", mode)
	}
	if err == nil {
		err = migrate(db)
	}
	if err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)
	return db, nil
}

// ConfigurePool applies the pool limits set in cfg. Zero values keep the
// database/sql defaults.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}
	for v := version; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if err := SetUserVersion(db, v+1); err != nil {
			return err
		}
	}
	return nil
}

func pragma[T any](db *sql.DB, name string) (T, error) {
	var v T
	if err := db.QueryRow("PRAGMA " + name + ";").Scan(&v); err != nil {
		return v, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return v, nil
}

// GetUserVersion returns the schema version stored in the user_version pragma.
func GetUserVersion(db *sql.DB) (int, error) {
	return pragma[int](db, "user_version")
}

// SetUserVersion records the schema version.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
