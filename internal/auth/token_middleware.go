package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/joestump/bookmarks/internal/config"
)

// TokenVerifier validates a bearer token and returns the caller's subject.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// BearerTokenMiddleware authenticates API requests via Bearer token.
type BearerTokenMiddleware struct {
	verifier TokenVerifier
}

// NewBearerTokenMiddleware creates a new BearerTokenMiddleware.
func NewBearerTokenMiddleware(v TokenVerifier) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{verifier: v}
}

// New builds the middleware selected by cfg.Auth.Mode. It returns nil when
// authentication is disabled.
func New(ctx context.Context, cfg *config.Config) (*BearerTokenMiddleware, error) {
	switch cfg.Auth.Mode {
	case "", "none":
		return nil, nil
	case "token":
		return NewBearerTokenMiddleware(NewStaticTokenVerifier(cfg.Auth.Token)), nil
	case "oidc":
		v, err := NewOIDCVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			return nil, err
		}
		return NewBearerTokenMiddleware(v), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

// Authenticate is an http.Handler middleware that extracts and validates a Bearer token.
// WHEN valid: injects the token subject into context.
// WHEN invalid/missing: returns 401 with {"error":{"message":"Unauthorized request"}}.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "bearer ") {
			writeUnauthorized(w)
			return
		}
		token := strings.TrimSpace(authHeader[7:])
		if token == "" {
			writeUnauthorized(w)
			return
		}

		subject, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), SubjectContextKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type unauthorizedBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func writeUnauthorized(w http.ResponseWriter) {
	var body unauthorizedBody
	body.Error.Message = "Unauthorized request"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="bookmarks"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(body)
}
