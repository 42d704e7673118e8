package api

import (
	"github.com/joestump/bookmarks/internal/sanitize"
	"github.com/joestump/bookmarks/internal/store"
)

// BookmarkResponse is the JSON representation of a single bookmark. Title and
// description are sanitized.
type BookmarkResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the client-facing error message.
type ErrorDetail struct {
	Message string `json:"message"`
}

func toBookmarkResponse(b *store.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:          b.ID,
		Title:       sanitize.String(b.Title),
		URL:         b.URL,
		Description: sanitize.String(b.Description),
		Rating:      b.Rating,
	}
}
