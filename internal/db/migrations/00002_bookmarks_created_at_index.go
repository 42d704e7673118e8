package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upBookmarksCreatedAtIndex, downBookmarksCreatedAtIndex)
}

func upBookmarksCreatedAtIndex(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE INDEX bookmarks_created_at_idx ON bookmarks (created_at)`)
	return err
}

// MySQL scopes index names to their table; the other dialects do not accept ON.
func downBookmarksCreatedAtIndex(ctx context.Context, tx *sql.Tx) error {
	stmt := `DROP INDEX IF EXISTS bookmarks_created_at_idx`
	if dialect == "mysql" {
		stmt = `DROP INDEX bookmarks_created_at_idx ON bookmarks`
	}
	_, err := tx.ExecContext(ctx, stmt)
	return err
}
