// Package sqlite implements the store contracts on a local SQLite file,
// the default backend for this single-user application.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Open opens (and creates if missing) the SQLite database at dsn and
// verifies the connection. Foreign keys are enabled so card and log rows
// cascade when a word is deleted.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// A single writer keeps sqlite's locking out of the picture; the app
	// is one logical session at a time anyway.
	db.SetMaxOpenConns(1)

	return db, nil
}
