package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meur/itemsapi/internal/dataset"
	"github.com/meur/itemsapi/internal/logging"
	"github.com/meur/itemsapi/internal/models"
	"github.com/meur/itemsapi/internal/storage"
)

// handleHealth reports whether the dataset is loaded. It never fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Health())
}

// handleGetCategories returns row counts per category
func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	categories, err := s.store.Categories(r.Context())
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if notModified(w, r, snap) {
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// handleListItems returns one page of filtered items
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := storage.DefaultItemQuery()
	query.Q = params.Get("q")
	query.Category = params.Get("category")
	query.Where = params.Get("where")
	query.Marca = params.Get("marca")

	var err error
	if query.Limit, err = intParam(params.Get("limit"), query.Limit); err != nil {
		respondError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	if query.Offset, err = intParam(params.Get("offset"), query.Offset); err != nil {
		respondError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	snap := s.store.Snapshot()
	page, err := s.store.ListItems(r.Context(), query)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if notModified(w, r, snap) {
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// handleGetItem returns a single item by its synthetic id
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	snap := s.store.Snapshot()
	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if notModified(w, r, snap) {
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// handleReload re-reads the source and swaps in the new snapshot
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, changed, err := s.reloader.Reload(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("reload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to reload dataset")
		return
	}

	respondJSON(w, http.StatusOK, models.ReloadResult{
		OK:         true,
		Rows:       snap.Len(),
		SnapshotID: snap.ID.String(),
		LoadedAt:   snap.LoadedAt,
		Changed:    changed,
	})
}

// respondStoreError maps query errors onto HTTP statuses
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotLoaded):
		respondError(w, http.StatusServiceUnavailable, "Dataset not loaded")
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "Item not found")
	default:
		logging.WithFields(r.Context(), "method", r.Method, "path", r.URL.Path).
			Error("query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal error")
	}
}

// notModified sets the ETag of snap and answers 304 when the client already
// holds it. Handlers call it only once the query has succeeded, and take snap
// before querying: a swap in between can only make the tag older than the
// body, which forces a full response next time.
func notModified(w http.ResponseWriter, r *http.Request, snap *dataset.Snapshot) bool {
	if snap == nil {
		return false
	}

	etag := snap.ETag()
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// etagMatches applies the weak comparison used for If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

// intParam parses an integer query parameter, using def when it is absent.
func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
