package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slideforge/internal/ai"
	"slideforge/internal/middleware"
	"slideforge/internal/models"
	"slideforge/internal/store"
	"slideforge/internal/themes"
)

// Presentations groups the presentation CRUD handlers. Creation is
// AI-backed: the deck outline comes from the active LLM provider.
type Presentations struct {
	presStore *store.PresentationStore
	registry  *ai.Registry
}

// NewPresentations creates the presentation handler group.
func NewPresentations(presStore *store.PresentationStore, registry *ai.Registry) *Presentations {
	return &Presentations{presStore: presStore, registry: registry}
}

// List returns the caller's presentations, most recently updated first.
func (h *Presentations) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	items, err := h.presStore.ListByUser(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("list presentations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load presentations.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"presentations": items})
}

type createPresentationRequest struct {
	Topic      string `json:"topic"`
	SlideCount int    `json:"slide_count"`
	Theme      string `json:"theme"`
}

// Create generates a new presentation from a topic. The active AI
// provider produces the outline; each outline entry becomes one slide
// carrying its suggested image search query for later backfill.
func (h *Presentations) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req createPresentationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTopic(req.Topic); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	// Moderation gate: refuse disallowed topics before spending tokens.
	if mod, err := h.registry.CheckPrompt(r.Context(), req.Topic); err == nil && !mod.Safe {
		writeError(w, http.StatusUnprocessableEntity, "This topic was flagged by content moderation: "+strings.Join(mod.Categories, ", "))
		return
	}

	theme := themes.Default()
	if req.Theme != "" {
		t, ok := themes.Find(req.Theme)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "Unknown theme.")
			return
		}
		theme = t
	}

	outline, err := h.registry.GenerateOutline(r.Context(), req.Topic, clampSlideCount(req.SlideCount))
	if err != nil {
		writeAIError(w, err)
		return
	}

	p := &models.Presentation{
		ID:     uuid.New(),
		UserID: sess.UserID,
		Topic:  req.Topic,
		Theme:  theme,
		Slides: make([]models.Slide, 0, len(outline)),
	}
	for _, o := range outline {
		slide := models.NewSlide()
		slide.Title = o.Title
		slide.Content = o.Bullets
		slide.BackgroundImage = theme.Colors.Background
		slide.BackgroundImageSearchQuery = o.ImageQuery
		p.Slides = append(p.Slides, slide)
	}

	if err := h.presStore.Create(r.Context(), p); err != nil {
		slog.Error("save presentation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not save the presentation.")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// Get returns one presentation owned by the caller.
func (h *Presentations) Get(w http.ResponseWriter, r *http.Request) {
	p := h.ownedPresentation(w, r)
	if p == nil {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete removes a presentation owned by the caller.
func (h *Presentations) Delete(w http.ResponseWriter, r *http.Request) {
	p := h.ownedPresentation(w, r)
	if p == nil {
		return
	}
	if err := h.presStore.Delete(r.Context(), p.ID); err != nil {
		slog.Error("delete presentation failed", "presentation", p.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not delete the presentation.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ownedPresentation loads the {id} presentation and enforces ownership.
// On any failure it writes the error response and returns nil.
func (h *Presentations) ownedPresentation(w http.ResponseWriter, r *http.Request) *models.Presentation {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid presentation id.")
		return nil
	}

	p, err := h.presStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("load presentation failed", "presentation", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the presentation.")
		return nil
	}
	if p == nil || p.UserID != sess.UserID {
		// Hide existence of other users' decks.
		writeError(w, http.StatusNotFound, "Presentation not found.")
		return nil
	}
	return p
}
