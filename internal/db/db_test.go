package db_test

import (
	"path/filepath"
	"testing"

	"github.com/joestump/bookmarks/internal/db"
)

func TestDialect(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"sqlite3", "sqlite3"},
		{"mysql", "mysql"},
		{"postgres", "postgres"},
		{"pgx", "postgres"},
	}
	for _, tt := range tests {
		got, err := db.Dialect(tt.driver)
		if err != nil {
			t.Fatalf("Dialect(%q): %v", tt.driver, err)
		}
		if got != tt.want {
			t.Errorf("Dialect(%q) = %q, want %q", tt.driver, got, tt.want)
		}
	}
	if _, err := db.Dialect("oracle"); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := db.New("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNew_SQLiteFileAndMigrate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "bookmarks.db")
	conn, err := db.New("sqlite3", dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// A second run is a no-op.
	if err := db.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM bookmarks`); err != nil {
		t.Fatalf("query bookmarks table: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}

	_, err = conn.Exec(`INSERT INTO bookmarks (id, title, url, description, rating, created_at, updated_at)
		VALUES ('x', 't', 'https://a.io', '', 9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Error("rating CHECK constraint not enforced")
	}
}
