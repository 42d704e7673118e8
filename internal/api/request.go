package api

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/joestump/bookmarks/internal/store"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidJSON  = errors.New("Request body must be valid JSON")
	errBodyTooLarge = errors.New("Request body too large")
	errEmptyPatch   = errors.New("Request body must contain either 'title', 'url', 'description', or 'rating'")
	errNotString    = errors.New("must be a string")

	// decimalRe is the plain decimal syntax accepted for ratings sent as
	// strings. It leaves out the hex, underscore and Inf forms ParseFloat takes.
	decimalRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// BookmarkRequest is the request body for POST /bookmarks and PATCH
// /bookmarks/{id}. A nil field was absent or JSON null. Unknown keys are ignored.
type BookmarkRequest struct {
	Title       *string      `json:"title"`
	URL         *string      `json:"url"`
	Description *string      `json:"description"`
	Rating      *RatingValue `json:"rating" swaggertype:"integer"`
}

// RatingValue holds the raw JSON of the rating field. Clients send either a
// number or a numeric string.
type RatingValue struct {
	raw json.RawMessage
}

func (v *RatingValue) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	return nil
}

// Int returns the rating as an int. ok is false unless the value is a
// decimal number in [store.MinRating, store.MaxRating]. Fractions are
// truncated toward zero, so 4.5 is stored as 4.
func (v *RatingValue) Int() (n int, ok bool) {
	s := string(v.raw)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(v.raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
	}
	if !decimalRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	if f < store.MinRating || f > store.MaxRating {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

func ratingError() error {
	return &store.ValidationError{Field: "rating", Err: store.ErrRatingRange}
}

// decodeBookmarkRequest reads a single JSON object from the request body.
// Every error it returns carries a client-facing message.
func decodeBookmarkRequest(w http.ResponseWriter, r *http.Request) (*BookmarkRequest, error) {
	var req BookmarkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(&req)
	if err == nil {
		var extra json.RawMessage
		if err = dec.Decode(&extra); errors.Is(err, io.EOF) {
			return &req, nil
		}
		if err == nil {
			return nil, errInvalidJSON
		}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, errBodyTooLarge
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		// rating accepts any JSON value, so only the string fields get here.
		return nil, &store.ValidationError{Field: typeErr.Field, Err: errNotString}
	}
	return nil, errInvalidJSON
}

// toNewBookmark applies the create rules: every field is present, title is
// not blank, rating is a number in range and url is well formed.
func (req *BookmarkRequest) toNewBookmark() (store.NewBookmark, error) {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return store.NewBookmark{}, &store.ValidationError{Field: "title", Err: store.ErrRequired}
	}
	if req.URL == nil {
		return store.NewBookmark{}, &store.ValidationError{Field: "url", Err: store.ErrRequired}
	}
	if req.Description == nil {
		return store.NewBookmark{}, &store.ValidationError{Field: "description", Err: store.ErrRequired}
	}
	if req.Rating == nil {
		return store.NewBookmark{}, &store.ValidationError{Field: "rating", Err: store.ErrRequired}
	}

	rating, ok := req.Rating.Int()
	if !ok {
		return store.NewBookmark{}, ratingError()
	}

	nb := store.NewBookmark{
		Title:       *req.Title,
		URL:         *req.URL,
		Description: *req.Description,
		Rating:      rating,
	}
	return nb, nb.Validate()
}

// toPatch applies the partial update rules: at least one field is present and
// every present field obeys the create rules.
func (req *BookmarkRequest) toPatch() (store.BookmarkPatch, error) {
	p := store.BookmarkPatch{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	}
	if req.Rating != nil {
		rating, ok := req.Rating.Int()
		if !ok {
			return store.BookmarkPatch{}, ratingError()
		}
		p.Rating = &rating
	}
	if p.IsEmpty() {
		return store.BookmarkPatch{}, errEmptyPatch
	}
	return p, p.Validate()
}
