package history

import (
	"reflect"
	"testing"
)

// doc is a small aggregate with a nested slice so deep-copy and deep-equal
// behaviour is actually exercised.
type doc struct {
	Title string
	Lines []string
}

func TestSetCommitsAndClearsFuture(t *testing.T) {
	h := New(doc{Title: "A"})

	if !h.Set(doc{Title: "B"}) {
		t.Fatal("Set with a different value should commit")
	}
	if !h.CanUndo() {
		t.Error("CanUndo: got false, want true after commit")
	}

	h.Undo()
	if !h.CanRedo() {
		t.Fatal("CanRedo: got false, want true after undo")
	}

	// A genuinely new edit invalidates all redo history.
	h.Set(doc{Title: "C"})
	if h.CanRedo() {
		t.Error("future must be cleared by a committed edit")
	}
	if got := h.Present(); got.Title != "C" {
		t.Errorf("present: got %q, want C", got.Title)
	}
}

func TestSetDeduplicatesDeepEqualValues(t *testing.T) {
	h := New(doc{Title: "A", Lines: []string{"one", "two"}})

	// Same content in a freshly allocated value: deep-equal, must no-op.
	if h.Set(doc{Title: "A", Lines: []string{"one", "two"}}) {
		t.Fatal("Set with a deep-equal value must be a no-op")
	}
	if past, future := h.Depth(); past != 0 || future != 0 {
		t.Errorf("depth: got past=%d future=%d, want 0/0", past, future)
	}
}

func TestUndoRedoInverse(t *testing.T) {
	h := New(doc{Title: "v1"})
	h.Set(doc{Title: "v2"})
	h.Set(doc{Title: "v3"})

	before := h.Present()
	pastBefore, futureBefore := h.Depth()

	if !h.Undo() {
		t.Fatal("Undo should succeed with non-empty past")
	}
	if got := h.Present(); got.Title != "v2" {
		t.Errorf("after undo: got %q, want v2", got.Title)
	}
	if !h.Redo() {
		t.Fatal("Redo should succeed after undo")
	}

	// Undo followed immediately by redo restores the exact prior state.
	if got := h.Present(); !reflect.DeepEqual(got, before) {
		t.Errorf("after undo+redo: got %+v, want %+v", got, before)
	}
	if past, future := h.Depth(); past != pastBefore || future != futureBefore {
		t.Errorf("depth after undo+redo: got %d/%d, want %d/%d", past, future, pastBefore, futureBefore)
	}
}

func TestUndoRedoBoundaries(t *testing.T) {
	h := New(doc{Title: "only"})

	if h.Undo() {
		t.Error("Undo with empty past must be a no-op")
	}
	if h.Redo() {
		t.Error("Redo with empty future must be a no-op")
	}
	if got := h.Present(); got.Title != "only" {
		t.Errorf("present changed by boundary no-ops: got %q", got.Title)
	}
}

func TestReset(t *testing.T) {
	h := New(doc{Title: "a"})
	h.Set(doc{Title: "b"})
	h.Undo()

	h.Reset(doc{Title: "fresh"})

	if h.CanUndo() || h.CanRedo() {
		t.Error("Reset must discard all history")
	}
	if got := h.Present(); got.Title != "fresh" {
		t.Errorf("present: got %q, want fresh", got.Title)
	}
}

func TestPresentIsACopy(t *testing.T) {
	h := New(doc{Title: "a", Lines: []string{"x"}})

	snap := h.Present()
	snap.Lines[0] = "mutated"

	if got := h.Present(); got.Lines[0] != "x" {
		t.Errorf("stored snapshot was aliased: got %q, want x", got.Lines[0])
	}
}

func TestSetCopiesInput(t *testing.T) {
	h := New(doc{Title: "a"})

	v := doc{Title: "b", Lines: []string{"x"}}
	h.Set(v)
	v.Lines[0] = "mutated"

	if got := h.Present(); got.Lines[0] != "x" {
		t.Errorf("committed snapshot was aliased: got %q, want x", got.Lines[0])
	}
}

func TestWithLimitDropsOldest(t *testing.T) {
	h := New(doc{Title: "0"}, WithLimit(2))
	h.Set(doc{Title: "1"})
	h.Set(doc{Title: "2"})
	h.Set(doc{Title: "3"})

	if past, _ := h.Depth(); past != 2 {
		t.Fatalf("past depth: got %d, want 2", past)
	}

	// Two undos are available; the oldest snapshot ("0") is gone.
	h.Undo()
	h.Undo()
	if h.Undo() {
		t.Error("third undo should fail under limit 2")
	}
	if got := h.Present(); got.Title != "1" {
		t.Errorf("oldest reachable snapshot: got %q, want 1", got.Title)
	}
}
