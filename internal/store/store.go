package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested bookmark does not exist.
var ErrNotFound = errors.New("not found")

// BookmarkStoreIface exposes all bookmark data operations.
// No handler MAY query the DB directly; all access goes through this interface.
type BookmarkStoreIface interface {
	List(ctx context.Context, opts ListOptions) ([]*Bookmark, error)
	GetByID(ctx context.Context, id string) (*Bookmark, error)
	Create(ctx context.Context, b NewBookmark) (*Bookmark, error)
	Update(ctx context.Context, id string, p BookmarkPatch) (int64, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

var _ BookmarkStoreIface = (*BookmarkStore)(nil)
