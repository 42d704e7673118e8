package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MinRating = 0
	MaxRating = 5
)

var (
	// ErrRequired is returned when a mandatory field is missing or blank.
	ErrRequired = errors.New("is required")

	// ErrRatingRange is returned when a rating is not an integer within [MinRating, MaxRating].
	ErrRatingRange = errors.New("must be a number between 0 and 5")

	// ErrURLInvalid is returned when a URL does not match urlRe.
	ErrURLInvalid = errors.New("must be a valid URL")

	// ErrEmptyPatch is returned when a partial update sets no field.
	ErrEmptyPatch = errors.New("at least one field must be set")

	// urlRe accepts an optional http(s) scheme, a dotted domain with a TLD of
	// two or more letters or an IPv4 literal, then optional port, path, query
	// and fragment. It is a syntactic check only.
	urlRe = regexp.MustCompile(`(?i)^(https?://)?` +
		`((([a-z\d]([a-z\d-]*[a-z\d])*)\.)+[a-z]{2,}|((\d{1,3}\.){3}\d{1,3}))` +
		`(:\d+)?(/[-a-z\d%_.~+]*)*` +
		`(\?[;&a-z\d%_.~+=-]*)?` +
		`(#[-a-z\d_]*)?$`)
)

// ValidationError names the field that failed and wraps one of the sentinel
// errors above. Its message is the client-facing text, e.g. "'url' must be a valid URL".
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("'%s' %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateTitle rejects blank titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Err: ErrRequired}
	}
	return nil
}

// ValidateRating checks that rating lies within [MinRating, MaxRating].
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return &ValidationError{Field: "rating", Err: ErrRatingRange}
	}
	return nil
}

// ValidateURL checks url against the URL syntax pattern.
func ValidateURL(url string) error {
	if !urlRe.MatchString(url) {
		return &ValidationError{Field: "url", Err: ErrURLInvalid}
	}
	return nil
}

// Validate checks a full record: title, then rating, then url.
func (b NewBookmark) Validate() error {
	if err := ValidateTitle(b.Title); err != nil {
		return err
	}
	if err := ValidateRating(b.Rating); err != nil {
		return err
	}
	return ValidateURL(b.URL)
}

// Validate checks that p sets at least one field and that every set field
// obeys the same rules as a full record.
func (p BookmarkPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Rating != nil {
		if err := ValidateRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.URL != nil {
		if err := ValidateURL(*p.URL); err != nil {
			return err
		}
	}
	return nil
}
