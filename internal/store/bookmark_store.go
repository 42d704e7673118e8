package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Bookmark represents a row in the bookmarks table.
type Bookmark struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	URL         string    `db:"url"`
	Description string    `db:"description"`
	Rating      int       `db:"rating"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NewBookmark carries the fields of a bookmark to be created.
type NewBookmark struct {
	Title       string
	URL         string
	Description string
	Rating      int
}

// BookmarkPatch carries a partial update. Nil fields are left unchanged.
type BookmarkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Rating      *int
}

// IsEmpty reports whether the patch sets no field at all.
func (p BookmarkPatch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil && p.Rating == nil
}

// ListOptions bounds a List call. A zero Limit returns every row and
// ignores Offset.
type ListOptions struct {
	Limit  int
	Offset int
}

// BookmarkStore is the sqlx-backed implementation of BookmarkStoreIface.
type BookmarkStore struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	var format sq.PlaceholderFormat = sq.Question
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		format = sq.Dollar
	}
	return &BookmarkStore{db: db, sb: sq.StatementBuilder.PlaceholderFormat(format)}
}

// List returns bookmarks oldest first.
func (s *BookmarkStore) List(ctx context.Context, opts ListOptions) ([]*Bookmark, error) {
	q := s.sb.Select("id", "title", "url", "description", "rating", "created_at", "updated_at").
		From("bookmarks").
		OrderBy("created_at ASC", "id ASC")
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
		if opts.Offset > 0 {
			q = q.Offset(uint64(opts.Offset))
		}
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	bookmarks := []*Bookmark{}
	if err := s.db.SelectContext(ctx, &bookmarks, query, args...); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// GetByID returns the bookmark matching id, or ErrNotFound.
func (s *BookmarkStore) GetByID(ctx context.Context, id string) (*Bookmark, error) {
	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.db.Rebind(`SELECT * FROM bookmarks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create validates b, inserts it under a new UUID and returns the stored row.
func (s *BookmarkStore) Create(ctx context.Context, b NewBookmark) (*Bookmark, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO bookmarks (id, title, url, description, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, b.Title, b.URL, b.Description, b.Rating, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Update applies the non-nil fields of p to the bookmark with the given id and
// returns the number of affected rows. Some drivers (MySQL) report zero when
// the new values equal the old ones, so callers check existence separately.
func (s *BookmarkStore) Update(ctx context.Context, id string, p BookmarkPatch) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	query, args, err := s.updateQuery(id, p, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BookmarkStore) updateQuery(id string, p BookmarkPatch, now time.Time) (string, []interface{}, error) {
	set := map[string]interface{}{"updated_at": now}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.URL != nil {
		set["url"] = *p.URL
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}

	query, args, err := s.sb.Update("bookmarks").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build update query: %w", err)
	}
	return query, args, nil
}

// Delete removes the bookmark with the given id, or returns ErrNotFound.
func (s *BookmarkStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bookmarks WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *BookmarkStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
