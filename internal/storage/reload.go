package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meur/itemsapi/internal/dataset"
	"github.com/meur/itemsapi/internal/observability"
)

// SnapshotLoader builds a fresh snapshot from the source.
type SnapshotLoader interface {
	Load(ctx context.Context) (*dataset.Snapshot, error)
}

// Reloader refreshes a Store from a SnapshotLoader. Reloads are serialised;
// a failed reload leaves the current snapshot in place.
type Reloader struct {
	mu     sync.Mutex
	store  *Store
	loader SnapshotLoader
}

// NewReloader creates a Reloader for store.
func NewReloader(store *Store, loader SnapshotLoader) *Reloader {
	return &Reloader{store: store, loader: loader}
}

// Reload loads the source and swaps it in unless its content matches the
// current snapshot. It returns the snapshot being served afterwards and
// whether it changed.
func (r *Reloader) Reload(ctx context.Context) (*dataset.Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.store.Snapshot()

	next, err := r.loader.Load(ctx)
	if err != nil {
		r.store.metrics.RecordReload(ctx, observability.OutcomeError)
		return current, false, fmt.Errorf("reload dataset: %w", err)
	}

	if current != nil && current.Source == next.Source && current.Fingerprint == next.Fingerprint {
		r.store.metrics.RecordReload(ctx, observability.OutcomeUnchanged)
		slog.Debug("dataset unchanged, keeping snapshot",
			"snapshot_id", current.ID.String(),
			"loaded_at", current.LoadedAt,
		)
		return current, false, nil
	}

	r.store.Swap(next)
	r.store.metrics.RecordReload(ctx, observability.OutcomeOK)
	slog.Info("dataset snapshot swapped",
		"snapshot_id", next.ID.String(),
		"rows", next.Len(),
		"source", next.Source,
		"loaded_at", next.LoadedAt,
	)
	return next, true, nil
}

// Run reloads every interval until ctx is done. Failures are logged.
func (r *Reloader) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := r.Reload(ctx); err != nil {
				slog.Warn("periodic reload failed", "error", err)
			}
		}
	}
}
