package api

import (
	"encoding/base64"
	"net/http"
	"strconv"
)

const maxLimit = 200

// nextCursorHeader carries the cursor for the following page of a list.
const nextCursorHeader = "X-Next-Cursor"

// parsePagination extracts cursor and limit from query parameters.
// A missing or non-positive limit disables paging (limit == 0).
// limit is silently capped at 200.
func parsePagination(r *http.Request) (offset, limit int) {
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if limit == 0 {
		return 0, 0
	}

	if c := decodeCursor(r.URL.Query().Get("cursor")); c != "" {
		if parsed, err := strconv.Atoi(c); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return offset, limit
}

// encodeCursor encodes an opaque pagination cursor from a string value.
func encodeCursor(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value))
}

// decodeCursor decodes an opaque pagination cursor back to the original string.
// Returns an empty string if the cursor is empty or invalid.
func decodeCursor(cursor string) string {
	if cursor == "" {
		return ""
	}
	b, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return ""
	}
	return string(b)
}
