package migrations

// The bookmarks table is created from Go because key and timestamp column
// types differ per driver: MySQL cannot index an unbounded TEXT primary key,
// and each driver scans timestamps from a different native type.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookmarks, downCreateBookmarks)
}

func upCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    url         TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    rating      SMALLINT NOT NULL CHECK (rating BETWEEN 0 AND 5),
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id          VARCHAR(36) PRIMARY KEY,
    title       TEXT NOT NULL,
    url         TEXT NOT NULL,
    description TEXT NOT NULL,
    rating      TINYINT NOT NULL CHECK (rating BETWEEN 0 AND 5),
    created_at  DATETIME(6) NOT NULL,
    updated_at  DATETIME(6) NOT NULL
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    url         TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    rating      INTEGER NOT NULL CHECK (rating BETWEEN 0 AND 5),
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}
	return nil
}

func downCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookmarks`)
	return err
}
