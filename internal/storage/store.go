package storage

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/meur/itemsapi/internal/dataset"
	"github.com/meur/itemsapi/internal/models"
	"github.com/meur/itemsapi/internal/observability"
)

// DefaultLimit is the page size used when the caller does not give one.
const DefaultLimit = 50

var (
	// ErrNotLoaded is returned by data queries while no snapshot is loaded.
	ErrNotLoaded = errors.New("dataset not loaded")

	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("item not found")
)

// Store serves read queries from the current dataset snapshot. The snapshot
// is replaced wholesale by Swap; readers never take a lock.
type Store struct {
	current atomic.Pointer[dataset.Snapshot]
	metrics *observability.Metrics
}

// New creates an empty Store. metrics may be nil.
func New(metrics *observability.Metrics) *Store {
	return &Store{metrics: metrics}
}

// Swap installs snap as the current snapshot and returns the previous one.
func (s *Store) Swap(snap *dataset.Snapshot) *dataset.Snapshot {
	return s.current.Swap(snap)
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *Store) Snapshot() *dataset.Snapshot {
	return s.current.Load()
}

// Health reports whether a dataset is loaded and how many rows it has.
func (s *Store) Health() models.Health {
	snap := s.current.Load()
	if snap == nil {
		return models.Health{OK: false, Rows: 0}
	}
	return models.Health{OK: true, Rows: snap.Len()}
}

// Categories returns the per-category row counts, sorted by category.
func (s *Store) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	snap := s.current.Load()
	if snap == nil {
		s.metrics.RecordQuery(ctx, "categories", observability.OutcomeUnavailable)
		return nil, ErrNotLoaded
	}
	s.metrics.RecordQuery(ctx, "categories", observability.OutcomeOK)
	return slices.Clone(snap.Categories), nil
}

// ItemQuery holds the filters and page window for ListItems. Empty
// strings disable a filter.
type ItemQuery struct {
	Q        string
	Category string
	Where    string
	Marca    string
	Limit    int
	Offset   int
}

// DefaultItemQuery returns an unfiltered query for the first page.
func DefaultItemQuery() ItemQuery {
	return ItemQuery{Limit: DefaultLimit}
}

// matcher holds the lowercased needles of an ItemQuery.
type matcher struct {
	q, category, where, marca string
}

func newMatcher(q ItemQuery) matcher {
	return matcher{
		q:        strings.ToLower(q.Q),
		category: strings.ToLower(q.Category),
		where:    strings.ToLower(q.Where),
		marca:    strings.ToLower(q.Marca),
	}
}

// match reports whether a folded item passes every active filter.
func (m matcher) match(item *models.Item) bool {
	if m.category != "" && !strings.Contains(item.Category, m.category) {
		return false
	}
	if m.where != "" && !strings.Contains(item.Where, m.where) {
		return false
	}
	if m.marca != "" && !strings.Contains(item.Marca, m.marca) {
		return false
	}
	if m.q != "" &&
		!strings.Contains(item.Name, m.q) &&
		!strings.Contains(item.Marca, m.q) &&
		!strings.Contains(item.Where, m.q) &&
		!strings.Contains(item.Category, m.q) {
		return false
	}
	return true
}

// ListItems filters the dataset and returns the [offset, offset+limit)
// window of the matches in dataset order. Total counts every match.
func (s *Store) ListItems(ctx context.Context, query ItemQuery) (models.ItemPage, error) {
	snap := s.current.Load()
	if snap == nil {
		s.metrics.RecordQuery(ctx, "list_items", observability.OutcomeUnavailable)
		return models.ItemPage{}, ErrNotLoaded
	}

	timing := observability.StartServerTiming(ctx, "filter")
	m := newMatcher(query)
	var matched []int
	for i := 0; i < snap.Len(); i++ {
		if m.match(snap.Folded(i)) {
			matched = append(matched, i)
		}
	}
	timing.Stop()

	timing = observability.StartServerTiming(ctx, "paginate")
	offset := max(query.Offset, 0)
	limit := max(query.Limit, 0)
	start := min(offset, len(matched))
	end := start + min(limit, len(matched)-start)

	page := models.ItemPage{
		Total: len(matched),
		Items: make([]models.Item, 0, end-start),
	}
	for _, i := range matched[start:end] {
		page.Items = append(page.Items, snap.Items[i])
	}
	timing.Stop()

	s.metrics.RecordQuery(ctx, "list_items", observability.OutcomeOK)
	s.metrics.RecordResultCount(ctx, len(page.Items))
	return page, nil
}

// GetItem returns the item with the given synthetic id.
func (s *Store) GetItem(ctx context.Context, id int) (models.Item, error) {
	snap := s.current.Load()
	if snap == nil {
		s.metrics.RecordQuery(ctx, "get_item", observability.OutcomeUnavailable)
		return models.Item{}, ErrNotLoaded
	}

	item, ok := snap.Lookup(id)
	if !ok {
		s.metrics.RecordQuery(ctx, "get_item", observability.OutcomeNotFound)
		return models.Item{}, ErrNotFound
	}
	s.metrics.RecordQuery(ctx, "get_item", observability.OutcomeOK)
	return item, nil
}
