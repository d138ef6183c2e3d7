// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slideforge/internal/editor"
	"slideforge/internal/export"
)

// editorHarness is an Editor handler over one open in-memory session.
type editorHarness struct {
	handler *Editor
	session *editor.Session
	userID  uuid.UUID
	mux     chi.Router
}

func newEditorHarness(t *testing.T, aiResponse string, aiErr error) *editorHarness {
	t.Helper()

	userID := uuid.New()
	registry := editor.NewRegistry(editor.DefaultSessionTTL)
	t.Cleanup(registry.Stop)

	es := editor.NewSession(testPresentation(userID), nil)
	registry.Add(es)

	h := NewEditor(registry, nil, fakeRegistry(aiResponse, aiErr), export.New())

	mux := chi.NewRouter()
	mux.Route("/editor/{sid}", func(r chi.Router) {
		r.Get("/", h.Snapshot)
		r.Get("/state", h.State)
		r.Delete("/", h.Close)
		r.Post("/select", h.Select)
		r.Post("/slides", h.AddSlide)
		r.Patch("/slide", h.UpdateSlide)
		r.Post("/slide/move", h.MoveSlide)
		r.Delete("/slides/{index}", h.DeleteSlide)
		r.Post("/theme", h.ApplyTheme)
		r.Post("/background", h.ApplyBackground)
		r.Post("/gradient", h.ApplyGradient)
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Get("/preview", h.Preview)
		r.Post("/refine", h.Refine)
		r.Get("/export", h.Export)
	})

	return &editorHarness{handler: h, session: es, userID: userID, mux: mux}
}

// do runs an authenticated request against the harness router.
func (eh *editorHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	r := authedRequest(method, "/editor/"+eh.session.ID+path, payload, eh.userID)
	w := httptest.NewRecorder()
	eh.mux.ServeHTTP(w, r)
	return w
}

func TestEditorSnapshot(t *testing.T) {
	eh := newEditorHarness(t, "", nil)
	w := eh.do(t, "GET", "/", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	pres := body["presentation"].(map[string]any)
	if pres["topic"] != "Quarterly Review" {
		t.Errorf("topic: got %q", pres["topic"])
	}
	state := body["state"].(map[string]any)
	if state["can_undo"] != false {
		t.Error("fresh session should not allow undo")
	}
}

func TestEditorUnknownSession(t *testing.T) {
	eh := newEditorHarness(t, "", nil)
	r := authedRequest("GET", "/editor/no-such-session/", nil, eh.userID)
	w := httptest.NewRecorder()
	eh.mux.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestEditorForeignSessionHidden(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	// Someone else's authenticated request must not see this session.
	r := authedRequest("GET", "/editor/"+eh.session.ID+"/", nil, uuid.New())
	w := httptest.NewRecorder()
	eh.mux.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestEditorUpdateSlide(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	w := eh.do(t, "PATCH", "/slide", map[string]any{"title": "Revised Opening"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	snap := eh.session.Snapshot()
	if snap.Slides[0].Title != "Revised Opening" {
		t.Errorf("title not applied: %q", snap.Slides[0].Title)
	}

	state := eh.session.State()
	if !state.CanUndo {
		t.Error("update should be undoable")
	}
}

func TestEditorUpdateSlideRejectsOversized(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	w := eh.do(t, "PATCH", "/slide", map[string]any{"title": strings.Repeat("x", 301)})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestEditorMoveAndSelect(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	if w := eh.do(t, "POST", "/select", map[string]int{"index": 1}); w.Code != http.StatusOK {
		t.Fatalf("select: got %d", w.Code)
	}
	if w := eh.do(t, "POST", "/slide/move", map[string]string{"direction": "up"}); w.Code != http.StatusOK {
		t.Fatalf("move: got %d", w.Code)
	}

	snap := eh.session.Snapshot()
	if snap.Slides[0].Title != "Details" {
		t.Errorf("slide not moved: first is %q", snap.Slides[0].Title)
	}
	if eh.session.Selected() != 0 {
		t.Errorf("selection should follow the moved slide, got %d", eh.session.Selected())
	}
}

func TestEditorMoveBadDirection(t *testing.T) {
	eh := newEditorHarness(t, "", nil)
	w := eh.do(t, "POST", "/slide/move", map[string]string{"direction": "sideways"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestEditorDeleteLastSlideRefused(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	if w := eh.do(t, "DELETE", "/slides/1", nil); w.Code != http.StatusOK {
		t.Fatalf("first delete: got %d", w.Code)
	}
	w := eh.do(t, "DELETE", "/slides/0", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("deleting the last slide: got %d, want 422", w.Code)
	}
}

func TestEditorAddSlide(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	w := eh.do(t, "POST", "/slides", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	snap := eh.session.Snapshot()
	if len(snap.Slides) != 3 {
		t.Errorf("slide count: got %d, want 3", len(snap.Slides))
	}
	if eh.session.Selected() != 2 {
		t.Errorf("new slide should be selected, got %d", eh.session.Selected())
	}
}

func TestEditorApplyTheme(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	w := eh.do(t, "POST", "/theme", map[string]string{"name": "midnight"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	if got := eh.session.Snapshot().Theme.Name; got != "midnight" {
		t.Errorf("theme: got %q", got)
	}

	w = eh.do(t, "POST", "/theme", map[string]string{"name": "nonexistent"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown theme: got %d, want 422", w.Code)
	}
}

func TestEditorGradient(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	w := eh.do(t, "POST", "/gradient", map[string]string{
		"start": "#FF0000", "end": "#0000FF", "direction": "to right",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	bg := eh.session.Snapshot().Slides[0].BackgroundImage
	if !strings.HasPrefix(bg, "linear-gradient(") {
		t.Errorf("background: got %q", bg)
	}

	w = eh.do(t, "POST", "/gradient", map[string]string{
		"start": "red", "end": "#0000FF", "direction": "to right",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid color: got %d, want 422", w.Code)
	}
}

func TestEditorUndoRedoFlow(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	eh.do(t, "PATCH", "/slide", map[string]any{"title": "Changed"})

	w := eh.do(t, "POST", "/undo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo: got %d", w.Code)
	}
	if got := eh.session.Snapshot().Slides[0].Title; got != "Opening" {
		t.Errorf("after undo: got %q, want Opening", got)
	}

	w = eh.do(t, "POST", "/redo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("redo: got %d", w.Code)
	}
	if got := eh.session.Snapshot().Slides[0].Title; got != "Changed" {
		t.Errorf("after redo: got %q, want Changed", got)
	}
}

func TestEditorRefine(t *testing.T) {
	eh := newEditorHarness(t, "- Tighter point one\n- Tighter point two", nil)

	w := eh.do(t, "POST", "/refine", map[string]string{"instruction": "make it tighter"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	got := eh.session.Snapshot().Slides[0].Content
	want := []string{"Tighter point one", "Tighter point two"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("refined content: got %v, want %v", got, want)
	}
}

func TestEditorRefineEmptyInstruction(t *testing.T) {
	eh := newEditorHarness(t, "whatever", nil)
	w := eh.do(t, "POST", "/refine", map[string]string{"instruction": "  "})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestEditorBusyConflict(t *testing.T) {
	eh := newEditorHarness(t, "- line", nil)

	if err := eh.session.BeginWork(); err != nil {
		t.Fatalf("BeginWork: %v", err)
	}
	defer eh.session.EndWork()

	w := eh.do(t, "POST", "/refine", map[string]string{"instruction": "again"})
	if w.Code != http.StatusConflict {
		t.Errorf("refine while busy: got %d, want 409", w.Code)
	}
	if w := eh.do(t, "GET", "/export", nil); w.Code != http.StatusConflict {
		t.Errorf("export while busy: got %d, want 409", w.Code)
	}
}

func TestEditorPreview(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	w := eh.do(t, "GET", "/preview", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["title"] != "Opening" {
		t.Errorf("title: got %q", body["title"])
	}
	if !strings.Contains(body["html"].(string), "<li>Welcome</li>") {
		t.Errorf("html: got %q", body["html"])
	}
}

func TestEditorExport(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	w := eh.do(t, "GET", "/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "presentationml") {
		t.Errorf("content-type: got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Quarterly_Review.pptx") {
		t.Errorf("content-disposition: got %q", cd)
	}
	// PPTX files are zip archives.
	if b := w.Body.Bytes(); len(b) < 4 || b[0] != 'P' || b[1] != 'K' {
		t.Error("body is not a zip archive")
	}
}

func TestEditorClose(t *testing.T) {
	eh := newEditorHarness(t, "", nil)

	if w := eh.do(t, "DELETE", "/", nil); w.Code != http.StatusOK {
		t.Fatalf("close: got %d", w.Code)
	}
	if w := eh.do(t, "GET", "/", nil); w.Code != http.StatusNotFound {
		t.Errorf("after close: got %d, want 404", w.Code)
	}
}
