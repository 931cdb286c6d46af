package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"
)

// OpenSQLite opens the SQLite database at path, creating its directory and
// the saves table if needed.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer; the driver serialises anyway
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS saves (
		id       TEXT PRIMARY KEY,
		saved_at INTEGER NOT NULL,
		body     TEXT NOT NULL
	);`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return conn, nil
}
