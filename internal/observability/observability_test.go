package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordQuery(ctx, "list_items", OutcomeOK)
		m.RecordResultCount(ctx, 10)
		m.RecordLoad(ctx, OutcomeError, time.Millisecond)
		m.RecordReload(ctx, OutcomeUnchanged)
	})
}

func TestMetrics_NoopProvider(t *testing.T) {
	m := NewMetrics(noop.NewMeterProvider())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordQuery(ctx, "categories", OutcomeUnavailable)
		m.RecordResultCount(ctx, 0)
		m.RecordLoad(ctx, OutcomeOK, 5*time.Millisecond)
		m.RecordReload(ctx, OutcomeOK)
	})
}

func TestMetrics_GlobalProvider(t *testing.T) {
	assert.NotNil(t, NewMetrics(nil))
}

func TestSpan_RecordsError(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "dataset.load", attribute.String("source", "items.csv"))
	assert.NotNil(t, ctx)

	assert.NotPanics(t, func() {
		EndSpan(span, errors.New("boom"))
	})
}

func TestStartServerTiming_WithoutMiddleware(t *testing.T) {
	m := StartServerTiming(context.Background(), "filter")
	assert.NotNil(t, m)
	assert.NotPanics(t, m.Stop)
}

func TestServerTimingMiddleware_WritesHeader(t *testing.T) {
	handler := ServerTimingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := StartServerTiming(r.Context(), "filter")
		m.Stop()
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Server-Timing"), "filter")
}
