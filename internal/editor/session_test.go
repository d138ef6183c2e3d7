package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"slideforge/internal/models"
	"slideforge/internal/themes"
)

// testPresentation builds a deck with n slides titled "slide-0".."slide-n-1".
func testPresentation(n int) models.Presentation {
	p := models.Presentation{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Topic:  "Test Deck",
		Theme:  themes.Default(),
	}
	for i := 0; i < n; i++ {
		s := models.NewSlide()
		s.Title = "slide-" + string(rune('0'+i))
		p.Slides = append(p.Slides, s)
	}
	return p
}

// recordingSaver captures Update calls for bridge assertions.
type recordingSaver struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (r *recordingSaver) Update(_ context.Context, _ *models.Presentation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.done != nil {
		select {
		case r.done <- struct{}{}:
		default:
		}
	}
	return r.err
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestUpdateSlideMergesPartialFields(t *testing.T) {
	s := NewSession(testPresentation(3), nil)
	s.Select(1)

	title := "Updated"
	anim := models.AnimationFade
	if err := s.UpdateSlide(SlideUpdate{Title: &title, Animation: &anim}); err != nil {
		t.Fatalf("UpdateSlide: %v", err)
	}

	snap := s.Snapshot()
	if snap.Slides[1].Title != "Updated" {
		t.Errorf("title: got %q, want Updated", snap.Slides[1].Title)
	}
	if snap.Slides[1].Animation != models.AnimationFade {
		t.Errorf("animation: got %q, want fade", snap.Slides[1].Animation)
	}
	// Untouched fields and untouched slides survive.
	if len(snap.Slides[1].Content) == 0 {
		t.Error("content should be untouched by a title update")
	}
	if snap.Slides[0].Title != "slide-0" || snap.Slides[2].Title != "slide-2" {
		t.Error("other slides must not change")
	}
}

func TestUpdateSlideRejectsUnknownAnimation(t *testing.T) {
	s := NewSession(testPresentation(1), nil)
	bad := models.Animation("wobble")
	if err := s.UpdateSlide(SlideUpdate{Animation: &bad}); err == nil {
		t.Fatal("expected error for unknown animation")
	}
	if s.State().CanUndo {
		t.Error("a rejected update must not commit")
	}
}

func TestMoveSlide(t *testing.T) {
	t.Run("swap down moves selection with the slide", func(t *testing.T) {
		s := NewSession(testPresentation(3), nil)
		s.Select(0)

		if err := s.MoveSlide("down"); err != nil {
			t.Fatalf("MoveSlide: %v", err)
		}

		snap := s.Snapshot()
		if snap.Slides[0].Title != "slide-1" || snap.Slides[1].Title != "slide-0" {
			t.Errorf("order after move: got [%q %q]", snap.Slides[0].Title, snap.Slides[1].Title)
		}
		if got := s.Selected(); got != 1 {
			t.Errorf("selection: got %d, want 1", got)
		}
	})

	t.Run("boundary moves are silent no-ops", func(t *testing.T) {
		s := NewSession(testPresentation(3), nil)

		s.Select(0)
		if err := s.MoveSlide("up"); err != nil {
			t.Fatalf("boundary move up: %v", err)
		}
		s.Select(2)
		if err := s.MoveSlide("down"); err != nil {
			t.Fatalf("boundary move down: %v", err)
		}

		if s.State().CanUndo {
			t.Error("boundary no-ops must not enter the undo log")
		}
	})

	t.Run("unknown direction rejected", func(t *testing.T) {
		s := NewSession(testPresentation(2), nil)
		if err := s.MoveSlide("sideways"); err == nil {
			t.Fatal("expected error for unknown direction")
		}
	})
}

func TestDeleteSlide(t *testing.T) {
	t.Run("refuses to delete the last slide", func(t *testing.T) {
		s := NewSession(testPresentation(1), nil)
		if err := s.DeleteSlide(0); !errors.Is(err, ErrLastSlide) {
			t.Fatalf("got %v, want ErrLastSlide", err)
		}
		if got := len(s.Snapshot().Slides); got != 1 {
			t.Errorf("slide count: got %d, want 1", got)
		}
	})

	t.Run("deleting the selected slide retargets to the previous", func(t *testing.T) {
		s := NewSession(testPresentation(3), nil)
		s.Select(2)
		if err := s.DeleteSlide(2); err != nil {
			t.Fatalf("DeleteSlide: %v", err)
		}
		if got := s.Selected(); got != 1 {
			t.Errorf("selection: got %d, want 1", got)
		}
	})

	t.Run("deleting selected index zero keeps selection at zero", func(t *testing.T) {
		s := NewSession(testPresentation(3), nil)
		s.Select(0)
		if err := s.DeleteSlide(0); err != nil {
			t.Fatalf("DeleteSlide: %v", err)
		}
		if got := s.Selected(); got != 0 {
			t.Errorf("selection: got %d, want 0", got)
		}
	})

	t.Run("deleting before the selection shifts it down", func(t *testing.T) {
		s := NewSession(testPresentation(3), nil)
		s.Select(2)
		if err := s.DeleteSlide(0); err != nil {
			t.Fatalf("DeleteSlide: %v", err)
		}
		if got := s.Selected(); got != 1 {
			t.Errorf("selection: got %d, want 1", got)
		}
		if got := s.Snapshot().Slides[1].Title; got != "slide-2" {
			t.Errorf("selected slide: got %q, want slide-2", got)
		}
	})

	t.Run("deleting after the selection leaves it unchanged", func(t *testing.T) {
		s := NewSession(testPresentation(3), nil)
		s.Select(0)
		if err := s.DeleteSlide(2); err != nil {
			t.Fatalf("DeleteSlide: %v", err)
		}
		if got := s.Selected(); got != 0 {
			t.Errorf("selection: got %d, want 0", got)
		}
	})

	t.Run("out of range index", func(t *testing.T) {
		s := NewSession(testPresentation(2), nil)
		if err := s.DeleteSlide(5); !errors.Is(err, ErrSlideIndex) {
			t.Fatalf("got %v, want ErrSlideIndex", err)
		}
	})
}

func TestAddSlide(t *testing.T) {
	s := NewSession(testPresentation(2), nil)

	added := s.AddSlide()

	snap := s.Snapshot()
	if got := len(snap.Slides); got != 3 {
		t.Fatalf("slide count: got %d, want 3", got)
	}
	if snap.Slides[2].ID != added.ID {
		t.Error("new slide must be appended at the end")
	}
	if got := s.Selected(); got != 2 {
		t.Errorf("selection: got %d, want 2 (the new slide)", got)
	}
	if snap.Slides[2].BackgroundImage != "#FFFFFF" {
		t.Errorf("background: got %q, want white", snap.Slides[2].BackgroundImage)
	}
	for _, existing := range snap.Slides[:2] {
		if existing.ID == added.ID {
			t.Error("new slide id collides with an existing slide")
		}
	}
}

func TestApplyThemeKeepsOverrides(t *testing.T) {
	p := testPresentation(2)
	color := "#FF00FF"
	p.Slides[0].TitleStyle = &models.TextStyle{Color: &color}
	s := NewSession(p, nil)

	dark, _ := themes.Find("midnight")
	s.ApplyTheme(dark)

	snap := s.Snapshot()
	if snap.Theme.Name != "midnight" {
		t.Errorf("theme: got %q, want midnight", snap.Theme.Name)
	}
	if snap.Slides[0].TitleStyle == nil || *snap.Slides[0].TitleStyle.Color != "#FF00FF" {
		t.Error("per-slide style override must survive a theme change")
	}
}

func TestApplyGradient(t *testing.T) {
	s := NewSession(testPresentation(1), nil)

	if err := s.ApplyGradient("#667eea", "#764ba2", "to right"); err != nil {
		t.Fatalf("ApplyGradient: %v", err)
	}
	want := "linear-gradient(to right, #667eea, #764ba2)"
	if got := s.Snapshot().Slides[0].BackgroundImage; got != want {
		t.Errorf("background: got %q, want %q", got, want)
	}

	if err := s.ApplyGradient("#fff", "#000", "diagonally"); err == nil {
		t.Fatal("invalid direction must be rejected")
	}
}

func TestUndoRedoThroughMutations(t *testing.T) {
	s := NewSession(testPresentation(2), nil)

	title := "edited"
	s.UpdateSlide(SlideUpdate{Title: &title})
	s.AddSlide()

	if !s.Undo() {
		t.Fatal("undo after add should succeed")
	}
	if got := len(s.Snapshot().Slides); got != 2 {
		t.Errorf("slides after undo: got %d, want 2", got)
	}
	// Selection was on the removed third slide; it must be clamped.
	if got := s.Selected(); got != 1 {
		t.Errorf("selection after undo: got %d, want 1", got)
	}

	if !s.Redo() {
		t.Fatal("redo should succeed")
	}
	if got := len(s.Snapshot().Slides); got != 3 {
		t.Errorf("slides after redo: got %d, want 3", got)
	}
}

func TestNoOpEditDoesNotPolluteHistory(t *testing.T) {
	s := NewSession(testPresentation(1), nil)

	// Re-applying the identical background is the classic no-op edit.
	current := s.Snapshot().Slides[0].BackgroundImage
	s.ApplyBackground(current)

	if s.State().CanUndo {
		t.Error("re-selecting the same value must not create an undo entry")
	}
}

func TestBusyFlag(t *testing.T) {
	s := NewSession(testPresentation(1), nil)

	if err := s.BeginWork(); err != nil {
		t.Fatalf("BeginWork: %v", err)
	}
	if err := s.BeginWork(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second BeginWork: got %v, want ErrBusy", err)
	}
	s.EndWork()
	if err := s.BeginWork(); err != nil {
		t.Fatalf("BeginWork after EndWork: %v", err)
	}
}

func TestPersistenceBridgeFires(t *testing.T) {
	saver := &recordingSaver{done: make(chan struct{}, 1)}
	s := NewSession(testPresentation(1), saver)

	title := "saved title"
	s.UpdateSlide(SlideUpdate{Title: &title})

	select {
	case <-saver.done:
	case <-time.After(2 * time.Second):
		t.Fatal("persistence bridge never fired")
	}

	// The flag settles to saved once the write lands.
	deadline := time.Now().Add(2 * time.Second)
	for !s.State().Saved {
		if time.Now().After(deadline) {
			t.Fatal("session never marked saved")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPersistenceFailureMarksUnsaved(t *testing.T) {
	saver := &recordingSaver{err: errors.New("store down"), done: make(chan struct{}, 1)}
	s := NewSession(testPresentation(1), saver)

	title := "doomed edit"
	s.UpdateSlide(SlideUpdate{Title: &title})

	<-saver.done

	// Retries exhaust; the session stays dirty but the document keeps the edit.
	deadline := time.Now().Add(3 * time.Second)
	for saver.count() < saveAttempts {
		if time.Now().After(deadline) {
			t.Fatalf("retries: got %d calls, want %d", saver.count(), saveAttempts)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if s.State().Saved {
		t.Error("session must stay unsaved after persistent failure")
	}
	if got := s.Snapshot().Slides[0].Title; got != "doomed edit" {
		t.Errorf("local document rolled back: got %q", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(time.Hour)
	defer r.Stop()

	s := NewSession(testPresentation(1), nil)
	r.Add(s)

	if got := r.Get(s.ID); got != s {
		t.Fatal("Get should return the registered session")
	}
	if r.Len() != 1 {
		t.Errorf("Len: got %d, want 1", r.Len())
	}

	r.Remove(s.ID)
	if r.Get(s.ID) != nil {
		t.Error("Get after Remove should return nil")
	}
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	r := NewRegistry(time.Millisecond)
	defer r.Stop()

	s := NewSession(testPresentation(1), nil)
	r.Add(s)

	time.Sleep(5 * time.Millisecond)
	r.evictIdle()

	if r.Get(s.ID) != nil {
		t.Error("idle session should have been evicted")
	}
}
