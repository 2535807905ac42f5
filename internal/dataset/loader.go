// Package dataset turns a delimited source file into an immutable Snapshot:
// locate the file, parse it, check the required columns, assign synthetic
// ids and precompute category counts.
package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meur/itemsapi/internal/observability"
)

// Loader builds snapshots from the configured source.
type Loader struct {
	opts    Options
	metrics *observability.Metrics
}

// NewLoader creates a Loader. metrics may be nil.
func NewLoader(opts Options, metrics *observability.Metrics) *Loader {
	return &Loader{opts: opts, metrics: metrics}
}

// Load locates and reads the source and returns a new Snapshot.
func (l *Loader) Load(ctx context.Context) (snap *Snapshot, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "dataset.load")
	defer func() {
		l.metrics.RecordLoad(ctx, loadOutcome(err), time.Since(start))
		observability.EndSpan(span, err)
	}()

	path, err := Locate(l.opts)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("dataset.source", path))

	snap, err = LoadFile(path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("dataset.rows", snap.Len()),
		attribute.Int("dataset.categories", len(snap.Categories)),
	)

	slog.Info("dataset loaded",
		"source", path,
		"rows", snap.Len(),
		"categories", len(snap.Categories),
		"snapshot_id", snap.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// LoadFile parses the file at path into a Snapshot.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	items, err := ParseItems(bytes.NewReader(data), delimiterFor(path), path)
	if err != nil {
		return nil, err
	}

	return NewSnapshot(items, path, xxhash.Sum64(data)), nil
}

func loadOutcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, ErrSourceNotFound):
		return observability.OutcomeNotFound
	default:
		return observability.OutcomeError
	}
}
