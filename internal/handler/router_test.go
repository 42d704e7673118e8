package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/build"
	"github.com/joestump/bookmarks/internal/handler"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/store"
	"github.com/joestump/bookmarks/internal/testutil"
)

func newRouter(t *testing.T, deps handler.Deps) (http.Handler, *store.BookmarkStore) {
	t.Helper()
	bs := store.NewBookmarkStore(testutil.NewTestDB(t))
	if deps.Bookmarks == nil {
		deps.Bookmarks = bs
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return handler.NewRouter(deps), bs
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz_OK(t *testing.T) {
	h, _ := newRouter(t, handler.Deps{})

	rec := get(h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, build.Version, body["version"])
}

type downStore struct{ store.BookmarkStoreIface }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthz_Unavailable(t *testing.T) {
	h, _ := newRouter(t, handler.Deps{Bookmarks: downStore{}})

	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestOperationalRoutes_NotGated(t *testing.T) {
	bearer := auth.NewBearerTokenMiddleware(auth.NewStaticTokenVerifier("API_TOKEN"))
	h, _ := newRouter(t, handler.Deps{BearerAuth: bearer})

	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(h, "/metrics").Code)
	assert.Equal(t, http.StatusUnauthorized, get(h, "/bookmarks").Code)

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer API_TOKEN")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	h, bs := newRouter(t, handler.Deps{})
	b, err := bs.Create(context.Background(), store.NewBookmark{Title: "m", URL: "https://m.io", Rating: 1})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, get(h, "/bookmarks/"+b.ID).Code)

	body, err := io.ReadAll(get(h, "/metrics").Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `bookmarks_http_requests_total{method="GET",route="/bookmarks/{id}",status="200"}`)
	assert.NotContains(t, text, b.ID)
}

func TestSwaggerUI(t *testing.T) {
	h, _ := newRouter(t, handler.Deps{})

	rec := get(h, "/api/docs/doc.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/bookmarks/{id}")
}

func TestMountedAPI_NotFound(t *testing.T) {
	h, _ := newRouter(t, handler.Deps{})

	rec := get(h, "/bookmarks/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Bookmark not found"))
}

func TestRateLimit(t *testing.T) {
	h, _ := newRouter(t, handler.Deps{RateLimitRPS: 0.001, RateLimitBurst: 2})

	assert.Equal(t, http.StatusOK, get(h, "/bookmarks").Code)
	assert.Equal(t, http.StatusOK, get(h, "/bookmarks").Code)

	rec := get(h, "/bookmarks")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":{"message":"rate limit exceeded"}}`, rec.Body.String())
}

// warnLogger records the messages passed to Warn and drops everything else.
type warnLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *warnLogger) Debug(string, ...zap.Field) {}
func (l *warnLogger) Info(string, ...zap.Field)  {}
func (l *warnLogger) Error(string, ...zap.Field) {}
func (l *warnLogger) Sync() error                { return nil }

func (l *warnLogger) With(...zap.Field) logger.Logger { return l }

func (l *warnLogger) Warn(msg string, _ ...zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func TestRateLimit_LogsRejections(t *testing.T) {
	log := &warnLogger{}
	h, _ := newRouter(t, handler.Deps{RateLimitRPS: 0.001, RateLimitBurst: 1, Logger: log})

	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
	assert.Empty(t, log.warns)

	assert.Equal(t, http.StatusTooManyRequests, get(h, "/healthz").Code)
	assert.Equal(t, []string{"rate limit exceeded"}, log.warns)
}
