// Package observability wires OpenTelemetry metrics and tracing and the
// Server-Timing response header. Without an installed SDK the global
// providers are no-ops, so instrumentation is always safe to call.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName identifies this module's meters and tracers.
const InstrumentationName = "github.com/meur/itemsapi"

// Outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeUnchanged   = "unchanged"
)

// Metrics holds the query and load instruments.
type Metrics struct {
	queryCount   metric.Int64Counter
	resultCount  metric.Int64Histogram
	loadCount    metric.Int64Counter
	loadDuration metric.Float64Histogram
	reloadCount  metric.Int64Counter
}

// NewMetrics creates instruments on mp. A nil mp uses the global provider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)
	m := &Metrics{}

	// Instrument creation only fails on invalid names; fall back to bare ones.
	var err error

	m.queryCount, err = meter.Int64Counter(
		"items.query.count",
		metric.WithDescription("Number of read queries served"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		m.queryCount, _ = meter.Int64Counter("items.query.count")
	}

	m.resultCount, err = meter.Int64Histogram(
		"items.result.count",
		metric.WithDescription("Number of items returned per listing page"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		m.resultCount, _ = meter.Int64Histogram("items.result.count")
	}

	m.loadCount, err = meter.Int64Counter(
		"items.load.count",
		metric.WithDescription("Dataset load attempts"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		m.loadCount, _ = meter.Int64Counter("items.load.count")
	}

	m.loadDuration, err = meter.Float64Histogram(
		"items.load.duration",
		metric.WithDescription("Duration of dataset loads in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.loadDuration, _ = meter.Float64Histogram("items.load.duration")
	}

	m.reloadCount, err = meter.Int64Counter(
		"items.reload.count",
		metric.WithDescription("Reload attempts by outcome"),
		metric.WithUnit("{reload}"),
	)
	if err != nil {
		m.reloadCount, _ = meter.Int64Counter("items.reload.count")
	}

	return m
}

// RecordQuery counts one query by operation and outcome.
func (m *Metrics) RecordQuery(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	m.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("items.operation", operation),
		attribute.String("items.outcome", outcome),
	))
}

// RecordResultCount records the size of a returned page.
func (m *Metrics) RecordResultCount(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.resultCount.Record(ctx, int64(count))
}

// RecordLoad records one dataset load attempt.
func (m *Metrics) RecordLoad(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("items.outcome", outcome))
	m.loadCount.Add(ctx, 1, attrs)
	m.loadDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordReload counts one reload attempt. outcome is OutcomeOK for a swap,
// OutcomeUnchanged when the snapshot was kept, or OutcomeError.
func (m *Metrics) RecordReload(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.reloadCount.Add(ctx, 1, metric.WithAttributes(attribute.String("items.outcome", outcome)))
}
