package handlers

import (
	"net/http"

	"slideforge/internal/themes"
)

// Themes serves the built-in theme catalog.
type Themes struct{}

// NewThemes creates the theme handler group.
func NewThemes() *Themes {
	return &Themes{}
}

// List returns the catalog, optionally filtered by a free-text query
// matched against names and tags.
func (h *Themes) List(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		writeJSON(w, http.StatusOK, map[string]any{"themes": themes.Search(q)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"themes": themes.All()})
}
