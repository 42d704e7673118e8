package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	// BearerAuth gates every API route. Nil disables authentication.
	BearerAuth *auth.BearerTokenMiddleware
	Bookmarks  store.BookmarkStoreIface
	Logger     logger.Logger
}

// NewAPIRouter creates a chi sub-router serving /bookmarks.
// All routes return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)
	if deps.BearerAuth != nil {
		r.Use(deps.BearerAuth.Authenticate)
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	registerBookmarkRoutes(r, deps.Bookmarks, log.With(logger.String("component", "api")))

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
