package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spfs/application"
	"spfs/database"
	"spfs/infrastructure/sharepointfs"
	"spfs/logging"
)

func bufferLogger(buf *bytes.Buffer) *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewJSONHandler(buf, nil))}
}

func newHealthDeps(t *testing.T, logger *logging.Logger) *Dependencies {
	t.Helper()
	db, err := database.New(database.Config{
		Path:          filepath.Join(t.TempDir(), "journal.db"),
		MaxOpenConns:  2,
		MaxIdleConns:  1,
		BusyTimeoutMs: 1000,
		EnableWAL:     true,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := sharepointfs.New(nil, sharepointfs.WithLibrary("Team Docs"))
	return &Dependencies{
		DB:          db,
		Logger:      logger,
		Adapter:     adapter,
		FileService: application.NewFileService(adapter, nil, logger),
	}
}

// failingWriter accepts headers but rejects every body write.
type failingWriter struct {
	header http.Header
	code   int
}

func (f *failingWriter) Header() http.Header       { return f.header }
func (f *failingWriter) WriteHeader(code int)      { f.code = code }
func (f *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestMountStaticAssets(t *testing.T) {
	var logs bytes.Buffer
	r := chi.NewRouter()
	mountStaticAssets(r, bufferLogger(&logs))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/listing.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.Empty(t, logs.String())
}

func TestHealthHandler(t *testing.T) {
	var logs bytes.Buffer
	deps := newHealthDeps(t, bufferLogger(&logs))

	w := httptest.NewRecorder()
	healthHandler(deps)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Team Docs", body["library"])
	assert.Contains(t, body, "database")
	assert.NotContains(t, logs.String(), "Failed to encode health response")
}

func TestHealthHandler_LogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	deps := newHealthDeps(t, bufferLogger(&logs))

	w := &failingWriter{header: http.Header{}}
	healthHandler(deps)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, logs.String(), "Failed to encode health response")
	assert.Contains(t, logs.String(), "connection reset")
}
