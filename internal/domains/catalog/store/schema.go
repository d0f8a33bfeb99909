package store

import (
	"context"
	"database/sql"
	"fmt"

	"library-catalog/pkg/database"
)

// Identifiers are stored as TEXT so that malformed ids in request paths
// resolve to "not found" rather than a cast error. References carry no
// foreign keys: dependents are checked by the delete guard.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id            TEXT PRIMARY KEY,
		first_name    VARCHAR(100) NOT NULL,
		family_name   VARCHAR(100) NOT NULL,
		date_of_birth DATE,
		date_of_death DATE
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id   TEXT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		CONSTRAINT genres_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id        TEXT PRIMARY KEY,
		title     TEXT NOT NULL,
		summary   TEXT NOT NULL,
		isbn      VARCHAR(32) NOT NULL,
		author_id TEXT NOT NULL,
		genre_ids TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_author_id ON books (author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_books_genre_ids ON books USING GIN (genre_ids)`,
	`CREATE TABLE IF NOT EXISTS book_instances (
		id       TEXT PRIMARY KEY,
		book_id  TEXT NOT NULL,
		imprint  TEXT NOT NULL,
		status   VARCHAR(16) NOT NULL DEFAULT 'Maintenance'
			CHECK (status IN ('Available', 'Maintenance', 'Loaned', 'Reserved')),
		due_back DATE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_book_instances_book_id ON book_instances (book_id)`,
}

// EnsureSchema creates the catalog tables and indexes in one transaction.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	return database.WithTransaction(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}
