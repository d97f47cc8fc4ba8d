package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ConnectToSQLite initializes and returns a SQLite connection
func ConnectToSQLite(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for SQLite: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	log.Println("Connected to SQLite database")
	return db, nil
}

// InitializeSchema creates all the necessary tables if they don't exist
func InitializeSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		id TEXT PRIMARY KEY,
		cache_key TEXT NOT NULL UNIQUE,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create geocode_cache table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_geocode_cache_expires_at ON geocode_cache(expires_at)`)
	if err != nil {
		return fmt.Errorf("failed to create geocode_cache index: %w", err)
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS invoice_snapshots (
		id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		subscription_id INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create invoice_snapshots table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_invoice_snapshots_subscription ON invoice_snapshots(subscription_id)`)
	if err != nil {
		return fmt.Errorf("failed to create invoice_snapshots index: %w", err)
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS invoice_access (
		subscription_id INTEGER NOT NULL,
		token_hash TEXT NOT NULL,
		granted_at TIMESTAMP NOT NULL,
		PRIMARY KEY (subscription_id, token_hash)
	)`)
	if err != nil {
		return fmt.Errorf("failed to create invoice_access table: %w", err)
	}

	log.Println("Database schema initialized successfully")
	return nil
}
