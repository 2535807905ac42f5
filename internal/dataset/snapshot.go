package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meur/itemsapi/internal/models"
)

// Snapshot is one fully built, immutable load of the dataset.
// Nothing may modify a Snapshot after NewSnapshot returns it.
type Snapshot struct {
	ID          uuid.UUID
	Source      string
	Fingerprint uint64
	LoadedAt    time.Time

	Items      []models.Item
	Categories []models.CategoryCount

	// folded holds lowercased copies of Items for case-insensitive matching
	folded []models.Item
}

// NewSnapshot builds a snapshot from parsed items and precomputes the
// category counts and folded search fields.
func NewSnapshot(items []models.Item, source string, fingerprint uint64) *Snapshot {
	if items == nil {
		items = []models.Item{}
	}

	folded := make([]models.Item, len(items))
	for i, item := range items {
		folded[i] = models.Item{
			ID:       item.ID,
			Name:     strings.ToLower(item.Name),
			Image:    item.Image,
			Category: strings.ToLower(item.Category),
			Where:    strings.ToLower(item.Where),
			Marca:    strings.ToLower(item.Marca),
		}
	}

	return &Snapshot{
		ID:          uuid.New(),
		Source:      source,
		Fingerprint: fingerprint,
		LoadedAt:    time.Now(),
		Items:       items,
		Categories:  CountCategories(items),
		folded:      folded,
	}
}

// CountCategories groups items by exact Category value and sorts the
// groups by category ascending. The empty category is its own group.
func CountCategories(items []models.Item) []models.CategoryCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Category]++
	}

	result := make([]models.CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, models.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.Items)
}

// Folded returns the lowercased form of row i.
func (s *Snapshot) Folded(i int) *models.Item {
	return &s.folded[i]
}

// Lookup returns the item with the given synthetic id.
func (s *Snapshot) Lookup(id int) (models.Item, bool) {
	if id < 1 || id > len(s.Items) {
		return models.Item{}, false
	}
	return s.Items[id-1], true
}

// ETag is a weak entity tag derived from the source content.
func (s *Snapshot) ETag() string {
	return fmt.Sprintf(`W/"%016x"`, s.Fingerprint)
}
