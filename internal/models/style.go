// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// TextStyle is a per-slide style override. Every field is optional: a nil
// pointer means "inherit from the theme". Absence must round-trip as
// absence, so concrete fallbacks are never written back into the model.
type TextStyle struct {
	Color      *string `json:"color,omitempty"`
	FontFamily *string `json:"font_family,omitempty"`
	FontWeight *string `json:"font_weight,omitempty"`
	Italic     *bool   `json:"italic,omitempty"`
	FontSize   *string `json:"font_size,omitempty"`
}

// EffectiveStyle is a fully-resolved style: every field populated from the
// slide override when set, otherwise from the theme default. It is a
// render/export-time value and is never persisted.
type EffectiveStyle struct {
	Color      string
	FontFamily string
	FontWeight string
	Italic     bool
	FontSize   string
}

// resolveStyle applies the two-level lookup: slide override first, theme
// default second. The defaults parameter carries the theme-derived values.
func resolveStyle(override *TextStyle, defaults EffectiveStyle) EffectiveStyle {
	out := defaults
	if override == nil {
		return out
	}
	if override.Color != nil {
		out.Color = *override.Color
	}
	if override.FontFamily != nil {
		out.FontFamily = *override.FontFamily
	}
	if override.FontWeight != nil {
		out.FontWeight = *override.FontWeight
	}
	if override.Italic != nil {
		out.Italic = *override.Italic
	}
	if override.FontSize != nil {
		out.FontSize = *override.FontSize
	}
	return out
}

// ResolveTitleStyle returns the slide's title style with theme fallbacks
// applied. Title text defaults to the theme's primary color and title font.
func ResolveTitleStyle(s *Slide, t *Theme) EffectiveStyle {
	return resolveStyle(s.TitleStyle, EffectiveStyle{
		Color:      t.Colors.Primary,
		FontFamily: t.Fonts.Title,
		FontWeight: "bold",
		Italic:     false,
		FontSize:   "24px",
	})
}

// ResolveContentStyle returns the slide's content style with theme
// fallbacks applied.
func ResolveContentStyle(s *Slide, t *Theme) EffectiveStyle {
	return resolveStyle(s.ContentStyle, EffectiveStyle{
		Color:      t.Colors.Text,
		FontFamily: t.Fonts.Body,
		FontWeight: "normal",
		Italic:     false,
		FontSize:   "14px",
	})
}
