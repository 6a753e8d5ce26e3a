package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-books-proxy/internal/googlebooks"
)

const (
	searchCacheControl = "public, max-age=300"
	volumeCacheControl = "public, max-age=3600"
	// Enriched volumes carry per-user data.
	enrichedCacheControl = "private, max-age=3600"
)

// SearchBooks proxies a volume search (GET /books/search).
func (h *Handlers) SearchBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := h.catalog.Search(r.Context(), googlebooks.SearchParams{
		Query:      q.Get("q"),
		StartIndex: q.Get("startIndex"),
		MaxResults: q.Get("maxResults"),
		OrderBy:    q.Get("orderBy"),
		Filter:     q.Get("filter"),
		PrintType:  q.Get("printType"),
		Projection: q.Get("projection"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", searchCacheControl)
	writeRaw(w, http.StatusOK, body)
}

// GetBook returns a volume with the caller's annotations (GET /books/{volumeId}).
func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	volume, err := h.catalog.Volume(r.Context(), chi.URLParam(r, "volumeId"), r.URL.Query().Get("projection"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	enriched := h.merger.Enrich(queryUser(r), volume)
	if _, ok := enriched["userInfo"]; ok {
		w.Header().Set("Cache-Control", enrichedCacheControl)
	} else {
		w.Header().Set("Cache-Control", volumeCacheControl)
	}
	writeJSON(w, http.StatusOK, enriched)
}
