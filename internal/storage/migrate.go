// Package storage owns the schema of the service and the upgrade
// steps between its revisions.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DB is the slice of a pgx pool the migrator needs. *pgxpool.Pool
// satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type migrationStep struct {
	version int
	apply   func(ctx context.Context, db DB) error
}

type Migrator struct {
	logger zerolog.Logger
	db     DB
	steps  []migrationStep
}

func NewMigrator(logger zerolog.Logger, db DB) *Migrator {
	return &Migrator{
		logger: logger,
		db:     db,
		steps: []migrationStep{
			{version: 1, apply: createBaseTables},
			{version: 2, apply: addDueDateColumn},
		},
	}
}

// Up applies every step newer than the recorded schema version, in
// order, recording a version marker after each one. Steps are written
// to be idempotent, so an interrupted run is safe to repeat.
func (m *Migrator) Up(ctx context.Context) error {
	const createVersionsTableQuery = `
CREATE TABLE IF NOT EXISTS schema_versions (
    version    INT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)
`
	_, err := m.db.Exec(ctx, createVersionsTableQuery)
	if err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	const selectVersionQuery = `
SELECT COALESCE(MAX(version), 0) FROM schema_versions
`
	var current int
	err = m.db.QueryRow(ctx, selectVersionQuery).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, step := range m.steps {
		if step.version <= current {
			continue
		}

		err = step.apply(ctx, m.db)
		if err != nil {
			return fmt.Errorf("failed to apply schema version %d: %w", step.version, err)
		}

		const insertVersionQuery = `
INSERT INTO schema_versions (version) VALUES ($1)
`
		_, err = m.db.Exec(ctx, insertVersionQuery, step.version)
		if err != nil {
			return fmt.Errorf("failed to record schema version %d: %w", step.version, err)
		}

		m.logger.Info().
			Int("version", step.version).
			Msg("applied schema upgrade step")
	}

	return nil
}

func createBaseTables(ctx context.Context, db DB) error {
	const createTablesQuery = `
CREATE TABLE IF NOT EXISTS users (
    id         UUID PRIMARY KEY,
    email      TEXT NOT NULL UNIQUE,
    password   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id            UUID PRIMARY KEY,
    user_id       UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    fingerprint   TEXT NOT NULL,
    refresh_token TEXT NOT NULL,
    expires_at    TIMESTAMPTZ NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contexts (
    id      BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS capabilities (
    user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    capability TEXT NOT NULL,
    context_id BIGINT NOT NULL,
    PRIMARY KEY (user_id, capability, context_id)
);

CREATE TABLE IF NOT EXISTS todo_items (
    id         BIGSERIAL PRIMARY KEY,
    user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    todotext   TEXT NOT NULL,
    done       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL
)
`
	_, err := db.Exec(ctx, createTablesQuery)
	return err
}

// addDueDateColumn is the later revision that gave items an optional
// due date. The column is added only if absent so re-running the step
// is harmless.
func addDueDateColumn(ctx context.Context, db DB) error {
	const columnExistsQuery = `
SELECT EXISTS (
    SELECT 1
    FROM information_schema.columns
    WHERE table_name = 'todo_items' AND
          column_name = 'due_date'
)
`
	var exists bool
	err := db.QueryRow(ctx, columnExistsQuery).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	const addColumnQuery = `
ALTER TABLE todo_items ADD COLUMN due_date TIMESTAMPTZ
`
	_, err = db.Exec(ctx, addColumnQuery)
	return err
}
