// Package seed loads bookmark fixtures from YAML and inserts them.
package seed

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/joestump/bookmarks/internal/store"
)

// Fixture is one bookmark in a seed file.
type Fixture struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Rating      int    `yaml:"rating"`
}

// File is the top-level shape of a seed file:
//
//	bookmarks:
//	  - title: Go
//	    url: https://go.dev
//	    description: The Go programming language
//	    rating: 5
type File struct {
	Bookmarks []Fixture `yaml:"bookmarks"`
}

// Parse decodes a seed file and validates every fixture with the create rules.
// Unknown keys are rejected so typos do not silently drop data.
func Parse(r io.Reader) ([]store.NewBookmark, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	out := make([]store.NewBookmark, 0, len(f.Bookmarks))
	for i, fx := range f.Bookmarks {
		nb := store.NewBookmark{
			Title:       fx.Title,
			URL:         fx.URL,
			Description: fx.Description,
			Rating:      fx.Rating,
		}
		if err := nb.Validate(); err != nil {
			return nil, fmt.Errorf("bookmark %d: %w", i+1, err)
		}
		out = append(out, nb)
	}
	return out, nil
}

// Creator is the subset of store.BookmarkStoreIface used by Apply.
type Creator interface {
	Create(ctx context.Context, b store.NewBookmark) (*store.Bookmark, error)
}

// Apply inserts items in order and returns how many were stored. It stops at
// the first failure; earlier rows stay inserted.
func Apply(ctx context.Context, s Creator, items []store.NewBookmark) (int, error) {
	for i, nb := range items {
		if _, err := s.Create(ctx, nb); err != nil {
			return i, fmt.Errorf("insert bookmark %d (%s): %w", i+1, nb.Title, err)
		}
	}
	return len(items), nil
}
