// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements the slide-editing core: a per-presentation
// session holding an undo/redo history of document snapshots and the set
// of mutations that produce new snapshots. Every mutation builds a fresh
// Presentation value and hands it to the history's Set — the committed
// present is the single source of truth all views render from.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"slideforge/internal/background"
	"slideforge/internal/history"
	"slideforge/internal/models"
)

// Validation refusals. These are expected user-facing conditions, surfaced
// as transient notices — never fatal to the session.
var (
	// ErrLastSlide is returned when deletion would empty the deck.
	ErrLastSlide = errors.New("a presentation must keep at least one slide")

	// ErrSlideIndex is returned for an out-of-range slide index.
	ErrSlideIndex = errors.New("slide index out of range")

	// ErrBusy is returned when an async operation is already in flight
	// for this session. Re-triggering is rejected, not queued.
	ErrBusy = errors.New("another operation is still running")
)

// Saver persists committed snapshots. The bridge is asynchronous and
// fire-and-forget from the mutation protocol's point of view: a failed
// save never rolls back the local document.
type Saver interface {
	Update(ctx context.Context, p *models.Presentation) error
}

// Session is one open editor over a single presentation. Its history is
// session-scoped: created when the editor opens, gone when it closes —
// only committed presents are ever persisted.
//
// All exported methods are safe for concurrent use; internally the
// document is mutated strictly serially under one lock, preserving the
// single-threaded semantics the history engine expects.
type Session struct {
	ID string

	mu       sync.Mutex
	hist     *history.History[models.Presentation]
	selected int
	busy     bool
	saved    bool
	gen      uint64 // bumped on every committed change; guards stale saves
	lastUsed time.Time

	saver Saver
}

// saveAttempts bounds the persistence retry loop.
const saveAttempts = 3

// NewSession opens an editing session over the given presentation.
// saver may be nil (e.g. in tests); the session then skips persistence.
func NewSession(p models.Presentation, saver Saver) *Session {
	return &Session{
		ID:       uuid.New().String(),
		hist:     history.New(p),
		saved:    true,
		lastUsed: time.Now(),
		saver:    saver,
	}
}

// Snapshot returns a copy of the current present.
func (s *Session) Snapshot() models.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.hist.Present()
}

// State describes the session for the status endpoint.
type State struct {
	Selected int  `json:"selected"`
	CanUndo  bool `json:"can_undo"`
	CanRedo  bool `json:"can_redo"`
	Saved    bool `json:"saved"`
	Busy     bool `json:"busy"`
}

// State returns the current selection, history, and persistence state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Selected: s.selected,
		CanUndo:  s.hist.CanUndo(),
		CanRedo:  s.hist.CanRedo(),
		Saved:    s.saved,
		Busy:     s.busy,
	}
}

// Select moves the selection. The index is clamped into range rather than
// rejected, matching how the thumbnail strip behaves.
func (s *Session) Select(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	n := len(s.hist.Peek().Slides)
	if index < 0 {
		index = 0
	}
	if index >= n {
		index = n - 1
	}
	s.selected = index
}

// Selected returns the index of the currently selected slide.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SlideUpdate is a partial field set merged into the selected slide.
// Nil fields are left untouched; a provided style object replaces the
// override wholesale (an empty object resets every field to the theme
// default, since unset style fields inherit).
type SlideUpdate struct {
	Title                      *string           `json:"title,omitempty"`
	Content                    *[]string         `json:"content,omitempty"`
	BackgroundImage            *string           `json:"background_image,omitempty"`
	BackgroundImageSearchQuery *string           `json:"background_image_search_query,omitempty"`
	Animation                  *models.Animation `json:"animation,omitempty"`
	TitleStyle                 *models.TextStyle `json:"title_style,omitempty"`
	ContentStyle               *models.TextStyle `json:"content_style,omitempty"`
}

// UpdateSlide merges the partial update into the selected slide. All
// other slides are untouched.
func (s *Session) UpdateSlide(u SlideUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := s.hist.Present()
	slide := &p.Slides[s.selected]

	if u.Title != nil {
		slide.Title = *u.Title
	}
	if u.Content != nil {
		slide.Content = *u.Content
	}
	if u.BackgroundImage != nil {
		slide.BackgroundImage = *u.BackgroundImage
	}
	if u.BackgroundImageSearchQuery != nil {
		slide.BackgroundImageSearchQuery = *u.BackgroundImageSearchQuery
	}
	if u.Animation != nil {
		if !u.Animation.Valid() {
			return fmt.Errorf("editor: unknown animation %q", *u.Animation)
		}
		slide.Animation = *u.Animation
	}
	if u.TitleStyle != nil {
		slide.TitleStyle = u.TitleStyle
	}
	if u.ContentStyle != nil {
		slide.ContentStyle = u.ContentStyle
	}

	s.commit(p)
	return nil
}

// MoveSlide swaps the selected slide with its neighbor. At a boundary
// (first slide moving up, last moving down) it is a silent no-op.
// Selection follows the moved slide.
func (s *Session) MoveSlide(direction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var delta int
	switch direction {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		return fmt.Errorf("editor: unknown move direction %q", direction)
	}

	p := s.hist.Present()
	i, j := s.selected, s.selected+delta
	if j < 0 || j >= len(p.Slides) {
		return nil
	}

	p.Slides[i], p.Slides[j] = p.Slides[j], p.Slides[i]
	s.selected = j
	s.commit(p)
	return nil
}

// DeleteSlide removes the slide at index. Refuses when only one slide
// remains. Selection re-targets: if the deleted slide was selected the
// selection moves to max(0, index-1); a deletion before the selection
// shifts it down by one; a deletion after it leaves it unchanged.
func (s *Session) DeleteSlide(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := s.hist.Present()
	if index < 0 || index >= len(p.Slides) {
		return ErrSlideIndex
	}
	if len(p.Slides) == 1 {
		return ErrLastSlide
	}

	p.Slides = append(p.Slides[:index], p.Slides[index+1:]...)

	switch {
	case index == s.selected:
		s.selected = index - 1
		if s.selected < 0 {
			s.selected = 0
		}
	case index < s.selected:
		s.selected--
	}

	s.commit(p)
	return nil
}

// AddSlide appends a fresh slide and selects it.
func (s *Session) AddSlide() models.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := s.hist.Present()
	slide := models.NewSlide()
	p.Slides = append(p.Slides, slide)
	s.selected = len(p.Slides) - 1
	s.commit(p)
	return slide
}

// ApplyTheme replaces the presentation's theme wholesale. Per-slide style
// overrides are untouched and still take precedence where set.
func (s *Session) ApplyTheme(t models.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := s.hist.Present()
	p.Theme = t
	s.commit(p)
}

// ApplyBackground replaces the selected slide's background descriptor.
// The value may be a color, gradient expression, image URL, or data URI —
// classification happens downstream.
func (s *Session) ApplyBackground(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := s.hist.Present()
	p.Slides[s.selected].BackgroundImage = value
	s.commit(p)
}

// ApplyGradient builds a linear-gradient expression and applies it as the
// selected slide's background.
func (s *Session) ApplyGradient(start, end, direction string) error {
	expr, err := background.BuildLinearGradient(start, end, direction)
	if err != nil {
		return err
	}
	s.ApplyBackground(expr)
	return nil
}

// ReplaceContent replaces the selected slide's bullet lines wholesale.
// This is the landing point for content-refinement results: the AI call
// happens elsewhere, only its parsed outcome enters the document.
func (s *Session) ReplaceContent(lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := s.hist.Present()
	p.Slides[s.selected].Content = lines
	s.commit(p)
}

// Undo steps the document one edit back. Returns false at the boundary.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.hist.Undo() {
		return false
	}
	s.clampSelection()
	s.persistAsync()
	return true
}

// Redo steps the document one undone edit forward. Returns false at the
// boundary.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.hist.Redo() {
		return false
	}
	s.clampSelection()
	s.persistAsync()
	return true
}

// BeginWork marks the session busy for a single in-flight async operation
// (refine, export). Returns ErrBusy when one is already running.
func (s *Session) BeginWork() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// EndWork clears the busy flag set by BeginWork.
func (s *Session) EndWork() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// LastUsed returns the time of the most recent session activity.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// touch records activity for TTL eviction. Caller holds s.mu.
func (s *Session) touch() {
	s.lastUsed = time.Now()
}

// clampSelection keeps the selection valid after undo/redo changed the
// slide count. Caller holds s.mu.
func (s *Session) clampSelection() {
	n := len(s.hist.Peek().Slides)
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

// commit hands the new snapshot to the history and, when it was actually
// a change, notifies the persistence bridge. Caller holds s.mu.
func (s *Session) commit(p models.Presentation) {
	if !s.hist.Set(p) {
		return
	}
	s.persistAsync()
}

// persistAsync pushes the committed present to the store in the
// background with bounded retry. A final failure marks the session as
// unsaved instead of rolling anything back; the status endpoint surfaces
// the flag so the client can show a "not saved" indicator. Caller holds
// s.mu.
func (s *Session) persistAsync() {
	s.gen++
	if s.saver == nil {
		return
	}

	snap := s.hist.Present()
	gen := s.gen
	s.saved = false

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		backoff := retry.WithMaxRetries(saveAttempts-1, retry.NewExponential(250*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := s.saver.Update(ctx, &snap); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			slog.Error("presentation save failed", "presentation", snap.ID, "error", err)
			return
		}
		// Only mark saved when no newer commit superseded this snapshot.
		if gen == s.gen {
			s.saved = true
		}
	}()
}
