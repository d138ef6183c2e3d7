// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ThemeColors holds the three base colors a theme provides.
type ThemeColors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Primary    string `json:"primary"`
}

// ThemeFonts holds the font stacks a theme provides for titles and body text.
type ThemeFonts struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Theme is immutable reference data: the editor only ever assigns a theme
// wholesale to a presentation, never mutates one. Every slide falls back to
// the owning presentation's theme for any style field it does not override.
type Theme struct {
	Name   string      `json:"name"`
	Tags   []string    `json:"tags"`
	Colors ThemeColors `json:"colors"`
	Fonts  ThemeFonts  `json:"fonts"`
}

// HasTag reports whether the theme carries the given free-text label.
func (t *Theme) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}
