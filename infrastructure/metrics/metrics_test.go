package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(fsOperationsTotal.WithLabelValues("copy", "error"))

	RecordOperation("copy", 10*time.Millisecond, errors.New("boom"))
	RecordOperation("copy", 10*time.Millisecond, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(fsOperationsTotal.WithLabelValues("copy", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(fsOperationsTotal.WithLabelValues("copy", "success")), 1.0)
}

func TestRecordUpload_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(bytesUploaded)

	RecordUpload(0)
	RecordUpload(-5)
	RecordUpload(42)

	assert.Equal(t, before+42, testutil.ToFloat64(bytesUploaded))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/fs/stat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/fs/stat", "418"))

	req := httptest.NewRequest(http.MethodGet, "/fs/stat?path=/a.txt", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/fs/stat", "418")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordJournalFailure()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spfs_journal_failures_total")
}

func TestRecordJournalPruned(t *testing.T) {
	before := testutil.ToFloat64(journalPrunedTotal)

	RecordJournalPruned(0)
	RecordJournalPruned(3)

	assert.Equal(t, before+3, testutil.ToFloat64(journalPrunedTotal))
}

func TestSetSSEClients(t *testing.T) {
	SetSSEClients(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(sseClients))

	SetSSEClients(0)
	assert.Zero(t, testutil.ToFloat64(sseClients))
}
