// Package sqlite is the terminal's local reference-data store: bins,
// pallets, products and their barcodes, kept in a SQLite file so scans
// resolve without a network round trip.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.sql
var schemaSQL string

// Open opens (or creates) the reference database and applies the schema
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open reference database failed: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the reference schema. Statements are idempotent, so
// calling this on an already-migrated database is a no-op.
func Migrate(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement failed: %w", err)
		}
	}
	return nil
}

// normalizeCode folds a scanned code into the canonical stored form.
// Handheld scanners on some terminals emit full-width characters; NFKC
// folds those before the case fold.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(code)))
}
