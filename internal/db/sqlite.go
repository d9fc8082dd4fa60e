package db

import (
	"database/sql"
	"fmt"

	"backend-ecocommute/internal/config"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens the local database file that backs the default key-value store.
func OpenSQLite(cfg config.Config) (*sql.DB, error) {
	path := cfg.KVSQLitePath
	if path == "" {
		path = ":memory:"
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	conn.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return conn, nil
}
