package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/joestump/bookmarks/docs/swagger"
	"github.com/joestump/bookmarks/internal/api"
	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Bookmarks  store.BookmarkStoreIface
	BearerAuth *auth.BearerTokenMiddleware
	Logger     logger.Logger

	// RequestTimeout bounds each request's context. Zero disables it.
	RequestTimeout time.Duration

	// RateLimitRPS is the sustained per-client request rate. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter assembles the full chi router with all middleware and routes.
// Operational routes are registered on the root router and never require auth;
// the bookmarks API is mounted last.
func NewRouter(deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)
	if deps.RateLimitRPS > 0 {
		r.Use(newRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst, log).Handler)
	}
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	health := NewHealthHandler(deps.Bookmarks)
	r.Get("/healthz", health.Check)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/", api.NewAPIRouter(api.Deps{
		BearerAuth: deps.BearerAuth,
		Bookmarks:  deps.Bookmarks,
		Logger:     log,
	}))

	return r
}
