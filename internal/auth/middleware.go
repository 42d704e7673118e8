package auth

import (
	"context"
)

type contextKey string

// SubjectContextKey holds the authenticated caller's subject.
const SubjectContextKey contextKey = "subject"

// SubjectFromContext returns the subject set by BearerTokenMiddleware, or ""
// when the request was not authenticated.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(SubjectContextKey).(string)
	return s
}
