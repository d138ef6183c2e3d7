package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slideforge/internal/ai"
	"slideforge/internal/editor"
	"slideforge/internal/export"
	"slideforge/internal/markdown"
	"slideforge/internal/middleware"
	"slideforge/internal/models"
	"slideforge/internal/store"
	"slideforge/internal/themes"
)

// Editor exposes the slide mutation protocol over HTTP. Every open
// editor is a registry session holding the undo/redo history; mutations
// address the session's selected slide unless they carry an index.
type Editor struct {
	registry  *editor.Registry
	presStore *store.PresentationStore
	aiReg     *ai.Registry
	exporter  *export.Exporter
}

// NewEditor creates the editor handler group.
func NewEditor(registry *editor.Registry, presStore *store.PresentationStore, aiReg *ai.Registry, exporter *export.Exporter) *Editor {
	return &Editor{
		registry:  registry,
		presStore: presStore,
		aiReg:     aiReg,
		exporter:  exporter,
	}
}

type openResponse struct {
	SessionID    string              `json:"session_id"`
	Presentation models.Presentation `json:"presentation"`
	State        editor.State        `json:"state"`
}

// Open loads a presentation and starts an editing session over it.
// The session's undo history begins empty at the loaded snapshot.
func (h *Editor) Open(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid presentation id.")
		return
	}

	p, err := h.presStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("load presentation failed", "presentation", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the presentation.")
		return
	}
	if p == nil || p.UserID != sess.UserID {
		writeError(w, http.StatusNotFound, "Presentation not found.")
		return
	}

	es := editor.NewSession(*p, h.presStore)
	h.registry.Add(es)

	writeJSON(w, http.StatusOK, openResponse{
		SessionID:    es.ID,
		Presentation: es.Snapshot(),
		State:        es.State(),
	})
}

// session resolves the {sid} editor session and enforces that the
// caller owns the presentation being edited. Writes the error response
// and returns nil when the session is missing or foreign.
func (h *Editor) session(w http.ResponseWriter, r *http.Request) *editor.Session {
	sess := middleware.SessionFromCtx(r.Context())

	es := h.registry.Get(chi.URLParam(r, "sid"))
	if es == nil {
		writeError(w, http.StatusNotFound, "Editor session not found or expired.")
		return nil
	}
	if snap := es.Snapshot(); snap.UserID != sess.UserID {
		writeError(w, http.StatusNotFound, "Editor session not found or expired.")
		return nil
	}
	return es
}

// respondSnapshot writes the current document plus session state — the
// client re-renders wholly from this after every mutation.
func respondSnapshot(w http.ResponseWriter, es *editor.Session) {
	writeJSON(w, http.StatusOK, map[string]any{
		"presentation": es.Snapshot(),
		"state":        es.State(),
	})
}

// writeEditorError maps mutation refusals onto statuses.
func writeEditorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, editor.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrLastSlide), errors.Is(err, editor.ErrSlideIndex):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// Snapshot returns the current document and session state.
func (h *Editor) Snapshot(w http.ResponseWriter, r *http.Request) {
	if es := h.session(w, r); es != nil {
		respondSnapshot(w, es)
	}
}

// State returns only the cheap session state for status polling.
func (h *Editor) State(w http.ResponseWriter, r *http.Request) {
	if es := h.session(w, r); es != nil {
		writeJSON(w, http.StatusOK, es.State())
	}
}

// Close removes the session. Unsaved state has already been pushed by
// the persistence bridge; the undo log is discarded.
func (h *Editor) Close(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	h.registry.Remove(es.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type selectRequest struct {
	Index int `json:"index"`
}

// Select moves the slide selection.
func (h *Editor) Select(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	es.Select(req.Index)
	writeJSON(w, http.StatusOK, es.State())
}

// UpdateSlide merges a partial field set into the selected slide.
func (h *Editor) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	var u editor.SlideUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateSlideText(u.Title, u.Content); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := es.UpdateSlide(u); err != nil {
		writeEditorError(w, err)
		return
	}
	respondSnapshot(w, es)
}

type moveRequest struct {
	Direction string `json:"direction"`
}

// MoveSlide swaps the selected slide with a neighbor.
func (h *Editor) MoveSlide(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := es.MoveSlide(req.Direction); err != nil {
		writeEditorError(w, err)
		return
	}
	respondSnapshot(w, es)
}

// DeleteSlide removes the slide at {index}.
func (h *Editor) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slide index.")
		return
	}
	if err := es.DeleteSlide(index); err != nil {
		writeEditorError(w, err)
		return
	}
	respondSnapshot(w, es)
}

// AddSlide appends a fresh slide and selects it.
func (h *Editor) AddSlide(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	es.AddSlide()
	respondSnapshot(w, es)
}

type themeRequest struct {
	Name string `json:"name"`
}

// ApplyTheme swaps the presentation theme wholesale.
func (h *Editor) ApplyTheme(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	var req themeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, ok := themes.Find(req.Name)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Unknown theme.")
		return
	}
	es.ApplyTheme(t)
	respondSnapshot(w, es)
}

type backgroundRequest struct {
	Value string `json:"value"`
}

// ApplyBackground sets the selected slide's background descriptor: a hex
// color, gradient expression, image URL, or data URI.
func (h *Editor) ApplyBackground(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	var req backgroundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	es.ApplyBackground(req.Value)
	respondSnapshot(w, es)
}

type gradientRequest struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Direction string `json:"direction"`
}

// ApplyGradient builds a linear gradient and applies it as the selected
// slide's background.
func (h *Editor) ApplyGradient(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	var req gradientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := es.ApplyGradient(req.Start, req.End, req.Direction); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondSnapshot(w, es)
}

// Undo steps one edit back. A no-op at the boundary still returns 200
// so the client can simply refresh its state.
func (h *Editor) Undo(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	es.Undo()
	respondSnapshot(w, es)
}

// Redo steps one undone edit forward.
func (h *Editor) Redo(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	es.Redo()
	respondSnapshot(w, es)
}

type refineRequest struct {
	Instruction string `json:"instruction"`
}

// Refine rewrites the selected slide's bullet points per a free-text
// instruction. The session is busy for the duration; a second refine or
// export while one runs gets a 409.
func (h *Editor) Refine(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}
	var req refineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateInstruction(req.Instruction); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := es.BeginWork(); err != nil {
		writeEditorError(w, err)
		return
	}
	defer es.EndWork()

	snap := es.Snapshot()
	slide := snap.Slides[es.Selected()]

	lines, err := h.aiReg.RefineBullets(r.Context(), slide.Title, slide.Content, req.Instruction)
	if err != nil {
		writeAIError(w, err)
		return
	}

	es.ReplaceContent(lines)
	respondSnapshot(w, es)
}

// Preview renders the selected slide's bullet points to HTML for the
// editor's preview pane.
func (h *Editor) Preview(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}

	snap := es.Snapshot()
	slide := snap.Slides[es.Selected()]

	html, err := markdown.BulletsToHTML(slide.Content)
	if err != nil {
		slog.Error("preview render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not render the preview.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"title": slide.Title,
		"html":  html,
	})
}

// Export renders the current document to a PowerPoint download. The
// session is busy for the duration.
func (h *Editor) Export(w http.ResponseWriter, r *http.Request) {
	es := h.session(w, r)
	if es == nil {
		return
	}

	if err := es.BeginWork(); err != nil {
		writeEditorError(w, err)
		return
	}
	defer es.EndWork()

	snap := es.Snapshot()
	data, err := h.exporter.Export(r.Context(), &snap)
	if err != nil {
		slog.Error("export failed", "presentation", snap.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not export the presentation.")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(snap.Topic)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
