package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the path to the single shared database
func DBPath() string {
	return filepath.Join("data", "coastal-activities.db")
}

// Resolve returns path, or the default location when path is empty
func Resolve(path string) string {
	if path == "" {
		return DBPath()
	}
	return path
}

// Open opens (creating if needed) the SQLite database at dbPath
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database %s: %w", dbPath, err)
	}

	// Set pragmas for performance
	_, _ = db.Exec("PRAGMA journal_mode=WAL")
	_, _ = db.Exec("PRAGMA synchronous=NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout=5000")

	return db, nil
}

// TableExists reports whether the named table is present
func TableExists(db *sql.DB, table string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for %s table: %w", table, err)
	}
	return count > 0, nil
}
