package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
        name          TEXT PRIMARY KEY,
        pdf_count     INTEGER NOT NULL DEFAULT 0 CHECK (pdf_count >= 0),
        theory_date   DATE,
        practice_date DATE,
        created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS progress (
        id               BIGSERIAL PRIMARY KEY,
        subject_name     TEXT NOT NULL,
        table_type       TEXT NOT NULL CHECK (table_type IN ('theory', 'practice')),
        current_progress INTEGER NOT NULL DEFAULT 0,
        total_pdfs       INTEGER NOT NULL DEFAULT 0,
        created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (subject_name, table_type)
    )`,
	`CREATE TABLE IF NOT EXISTS important_tasks (
        id             TEXT PRIMARY KEY,
        text           TEXT NOT NULL,
        numerator      INTEGER NOT NULL DEFAULT 0,
        denominator    INTEGER NOT NULL DEFAULT 1,
        days_remaining INTEGER NOT NULL DEFAULT 0,
        due_date       DATE,
        url            TEXT,
        sub_topics     TEXT[] NOT NULL DEFAULT '{}',
        created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
}

// SQLite has no arrays: sub_topics holds a JSON list.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
        name          TEXT PRIMARY KEY,
        pdf_count     INTEGER NOT NULL DEFAULT 0,
        theory_date   DATE,
        practice_date DATE,
        created_at    TIMESTAMP NOT NULL,
        updated_at    TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS progress (
        id               INTEGER PRIMARY KEY AUTOINCREMENT,
        subject_name     TEXT NOT NULL,
        table_type       TEXT NOT NULL,
        current_progress INTEGER NOT NULL DEFAULT 0,
        total_pdfs       INTEGER NOT NULL DEFAULT 0,
        created_at       TIMESTAMP NOT NULL,
        updated_at       TIMESTAMP NOT NULL,
        UNIQUE (subject_name, table_type)
    )`,
	`CREATE TABLE IF NOT EXISTS important_tasks (
        id             TEXT PRIMARY KEY,
        text           TEXT NOT NULL,
        numerator      INTEGER NOT NULL DEFAULT 0,
        denominator    INTEGER NOT NULL DEFAULT 1,
        days_remaining INTEGER NOT NULL DEFAULT 0,
        due_date       DATE,
        url            TEXT,
        sub_topics     TEXT NOT NULL DEFAULT '[]',
        created_at     TIMESTAMP NOT NULL,
        updated_at     TIMESTAMP NOT NULL
    )`,
}

// Migrate creates the tables if they do not exist yet. It is safe to run on
// every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := postgresSchema
	if isSQLite(db) {
		schema = sqliteSchema
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func isSQLite(db *sqlx.DB) bool {
	return db.DriverName() == "sqlite3"
}
