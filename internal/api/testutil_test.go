package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/joestump/bookmarks/internal/api"
	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/store"
	"github.com/joestump/bookmarks/internal/testutil"
)

// testEnv holds the store and router needed for API integration tests.
type testEnv struct {
	Router        http.Handler
	BookmarkStore *store.BookmarkStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the API router with the real store and no authentication.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithAuth(t, nil)
}

func newTestEnvWithAuth(t *testing.T, bearer *auth.BearerTokenMiddleware) *testEnv {
	t.Helper()
	bs := store.NewBookmarkStore(testutil.NewTestDB(t))
	router := api.NewAPIRouter(api.Deps{
		BearerAuth: bearer,
		Bookmarks:  bs,
		Logger:     logger.NewNop(),
	})
	return &testEnv{Router: router, BookmarkStore: bs}
}

// seedBookmark stores a bookmark directly, bypassing the HTTP layer.
func seedBookmark(t *testing.T, env *testEnv, title string) *store.Bookmark {
	t.Helper()
	b, err := env.BookmarkStore.Create(context.Background(), store.NewBookmark{
		Title:       title,
		URL:         "https://example.com",
		Description: "seeded",
		Rating:      4,
	})
	if err != nil {
		t.Fatalf("seed bookmark: %v", err)
	}
	return b
}

// do sends a request with an optional raw JSON body through the router.
func do(t *testing.T, env *testEnv, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// errorMessage decodes an ErrorResponse body and returns its message.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v; body: %s", err, rec.Body.String())
	}
	return resp.Error.Message
}

func decodeBookmark(t *testing.T, rec *httptest.ResponseRecorder) api.BookmarkResponse {
	t.Helper()
	var resp api.BookmarkResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v; body: %s", err, rec.Body.String())
	}
	return resp
}

// logEntry is one call captured by recordingLogger.
type logEntry struct {
	Level   string
	Message string
	Fields  map[string]string
}

// recordingLogger captures log calls so tests can assert on them.
type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	fields  []zap.Field
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) record(level, msg string, fields []zap.Field) {
	enc := stringFields(append(append([]zap.Field{}, l.fields...), fields...))
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{Level: level, Message: msg, Fields: enc})
}

func (l *recordingLogger) Debug(msg string, fields ...zap.Field) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...zap.Field)  { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...zap.Field)  { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...zap.Field) { l.record("error", msg, fields) }
func (l *recordingLogger) Sync() error                           { return nil }

func (l *recordingLogger) With(fields ...zap.Field) logger.Logger {
	return &recordingLogger{mu: l.mu, entries: l.entries, fields: append(append([]zap.Field{}, l.fields...), fields...)}
}

// Entries returns a copy of everything logged so far.
func (l *recordingLogger) Entries() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), *l.entries...)
}

func stringFields(fields []zap.Field) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.String != "" {
			out[f.Key] = f.String
		}
	}
	return out
}
