// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Animation is the slide transition effect played when a slide enters.
type Animation string

const (
	AnimationNone  Animation = "none"
	AnimationFade  Animation = "fade"
	AnimationSlide Animation = "slide"
	AnimationZoom  Animation = "zoom"
)

// Valid reports whether a is one of the known animation values.
func (a Animation) Valid() bool {
	switch a {
	case AnimationNone, AnimationFade, AnimationSlide, AnimationZoom:
		return true
	}
	return false
}

// Slide is a single slide in a presentation. Content holds the bullet
// lines in display order. BackgroundImage is a tagged string: a hex color,
// a CSS linear-gradient expression, a data URI, or an external URL — its
// meaning is derived by the background package, never stored separately.
type Slide struct {
	ID                         uuid.UUID  `json:"id"`
	Title                      string     `json:"title"`
	Content                    []string   `json:"content"`
	BackgroundImage            string     `json:"background_image"`
	BackgroundImageSearchQuery string     `json:"background_image_search_query"`
	Animation                  Animation  `json:"animation,omitempty"`
	TitleStyle                 *TextStyle `json:"title_style,omitempty"`
	ContentStyle               *TextStyle `json:"content_style,omitempty"`
}

// Branding holds the optional company branding overlaid on every slide
// at render and export time.
type Branding struct {
	SubTitle       string `json:"sub_title,omitempty"`
	CompanyLogo    string `json:"company_logo,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`
}

// Presentation is the root aggregate of the editing core. Slides is an
// ordered sequence — rendering and export iterate it in order — and is
// never empty: slide deletion refuses to remove the last slide.
type Presentation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Topic     string    `json:"topic"`
	Slides    []Slide   `json:"slides"`
	Theme     Theme     `json:"theme"`
	Branding  Branding  `json:"branding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int {
	return len(p.Slides)
}

// SlideIndex returns the position of the slide with the given id, or -1.
func (p *Presentation) SlideIndex(id uuid.UUID) int {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

// NewSlide returns a blank slide with a fresh identity, placeholder text,
// a white background, and no animation.
func NewSlide() Slide {
	return Slide{
		ID:              uuid.New(),
		Title:           "New Slide",
		Content:         []string{"Click to edit this bullet point"},
		BackgroundImage: "#FFFFFF",
		Animation:       AnimationNone,
	}
}
