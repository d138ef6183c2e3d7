package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"slideforge/internal/ai"
	"slideforge/internal/cache"
)

// AI groups the image acquisition and provider management handlers.
// Text generation lives with the handlers that consume it (deck
// creation, refinement); these endpoints serve the editor's image
// pickers.
type AI struct {
	registry *ai.Registry
	searcher ai.ImageSearcher
	images   *cache.ImageCache
}

// NewAI creates the AI handler group. searcher and images may be nil
// when image search is not configured.
func NewAI(registry *ai.Registry, searcher ai.ImageSearcher, images *cache.ImageCache) *AI {
	return &AI{registry: registry, searcher: searcher, images: images}
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImage produces a background image from a text prompt via the
// active provider and returns it as a data URI the editor applies
// directly to a slide.
func (h *AI) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateImagePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if mod, err := h.registry.CheckPrompt(r.Context(), req.Prompt); err == nil && !mod.Safe {
		writeError(w, http.StatusUnprocessableEntity, "This prompt was flagged by content moderation: "+strings.Join(mod.Categories, ", "))
		return
	}

	uri, err := h.registry.GenerateImageDataURI(r.Context(), req.Prompt)
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"data_uri": uri})
}

type generateImagesRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count"`
}

// maxGeneratedImages caps one picker-grid request; image generation is
// the most expensive provider call there is.
const maxGeneratedImages = 4

// GenerateImages produces several candidate images for the same prompt
// so the editor can offer a choice.
func (h *AI) GenerateImages(w http.ResponseWriter, r *http.Request) {
	var req generateImagesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateImagePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if req.Count < 1 {
		req.Count = 2
	}
	if req.Count > maxGeneratedImages {
		req.Count = maxGeneratedImages
	}

	if mod, err := h.registry.CheckPrompt(r.Context(), req.Prompt); err == nil && !mod.Safe {
		writeError(w, http.StatusUnprocessableEntity, "This prompt was flagged by content moderation: "+strings.Join(mod.Categories, ", "))
		return
	}

	uris, err := h.registry.GenerateImageDataURIs(r.Context(), req.Prompt, req.Count)
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data_uris": uris})
}

// SearchImages finds stock photos for a query. Results are cached in
// Valkey so repeated queries across slides don't burn API quota.
func (h *AI) SearchImages(w http.ResponseWriter, r *http.Request) {
	if h.searcher == nil {
		writeError(w, http.StatusNotImplemented, "Image search is not configured.")
		return
	}

	query := r.URL.Query().Get("q")
	if msg := validateSearchQuery(query); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	// count=1 is the single-image form; default fills the picker grid.
	count := 12
	if c, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && c > 0 {
		count = c
	}
	if count > 30 {
		count = 30
	}

	if h.images != nil {
		if urls, ok := h.images.Get(r.Context(), query); ok {
			writeJSON(w, http.StatusOK, map[string]any{"urls": urls, "cached": true})
			return
		}
	}

	urls, err := h.searcher.Search(r.Context(), query, count)
	if err != nil {
		writeAIError(w, err)
		return
	}

	if h.images != nil {
		h.images.Set(r.Context(), query, urls)
	}
	writeJSON(w, http.StatusOK, map[string]any{"urls": urls, "cached": false})
}

// Providers lists the configured AI providers and which one is active.
func (h *AI) Providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    h.registry.ActiveName(),
		"available": h.registry.Available(),
	})
}

type setProviderRequest struct {
	Name string `json:"name"`
}

// SetProvider switches the active provider. Admin only — wired behind
// RequireAdmin in the router.
func (h *AI) SetProvider(w http.ResponseWriter, r *http.Request) {
	var req setProviderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.registry.SetActive(req.Name); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.Info("active ai provider changed", "provider", req.Name)
	writeJSON(w, http.StatusOK, map[string]string{"active": h.registry.ActiveName()})
}
