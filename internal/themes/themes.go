// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package themes holds the built-in theme catalog. Themes are immutable
// reference data: the editor assigns them wholesale to a presentation and
// never mutates one, so the catalog is compiled in rather than stored.
package themes

import (
	"strings"

	"slideforge/internal/models"
)

// catalog is ordered; All and Search preserve this order.
var catalog = []models.Theme{
	{
		Name: "daylight",
		Tags: []string{"light", "clean", "minimal"},
		Colors: models.ThemeColors{
			Background: "#FFFFFF",
			Text:       "#333333",
			Primary:    "#2563EB",
		},
		Fonts: models.ThemeFonts{
			Title: "'Inter', sans-serif",
			Body:  "'Inter', sans-serif",
		},
	},
	{
		Name: "midnight",
		Tags: []string{"dark", "professional", "tech"},
		Colors: models.ThemeColors{
			Background: "#1A1A2E",
			Text:       "#EAEAEA",
			Primary:    "#E94560",
		},
		Fonts: models.ThemeFonts{
			Title: "'Montserrat', sans-serif",
			Body:  "'Open Sans', sans-serif",
		},
	},
	{
		Name: "boardroom",
		Tags: []string{"corporate", "professional", "serious"},
		Colors: models.ThemeColors{
			Background: "#F8FAFC",
			Text:       "#1E293B",
			Primary:    "#0F172A",
		},
		Fonts: models.ThemeFonts{
			Title: "'Georgia', serif",
			Body:  "'Helvetica Neue', sans-serif",
		},
	},
	{
		Name: "sunset",
		Tags: []string{"warm", "creative", "bold"},
		Colors: models.ThemeColors{
			Background: "#FFF7ED",
			Text:       "#431407",
			Primary:    "#EA580C",
		},
		Fonts: models.ThemeFonts{
			Title: "'Poppins', sans-serif",
			Body:  "'Nunito', sans-serif",
		},
	},
	{
		Name: "forest",
		Tags: []string{"nature", "calm", "green"},
		Colors: models.ThemeColors{
			Background: "#F0FDF4",
			Text:       "#14532D",
			Primary:    "#16A34A",
		},
		Fonts: models.ThemeFonts{
			Title: "'Merriweather', serif",
			Body:  "'Lato', sans-serif",
		},
	},
	{
		Name: "academia",
		Tags: []string{"education", "classic", "serious"},
		Colors: models.ThemeColors{
			Background: "#FFFBEB",
			Text:       "#292524",
			Primary:    "#92400E",
		},
		Fonts: models.ThemeFonts{
			Title: "'Playfair Display', serif",
			Body:  "'Source Sans Pro', sans-serif",
		},
	},
}

// Default returns the theme assigned to newly generated presentations.
func Default() models.Theme {
	return catalog[0]
}

// All returns the full catalog in declaration order.
func All() []models.Theme {
	out := make([]models.Theme, len(catalog))
	copy(out, catalog)
	return out
}

// Find returns the theme with the given name, or false when no theme
// carries that name.
func Find(name string) (models.Theme, bool) {
	for _, t := range catalog {
		if t.Name == name {
			return t, true
		}
	}
	return models.Theme{}, false
}

// Search returns themes whose name or tags contain the query,
// case-insensitive. An empty query returns the full catalog.
func Search(query string) []models.Theme {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return All()
	}

	var out []models.Theme
	for _, t := range catalog {
		if strings.Contains(strings.ToLower(t.Name), query) {
			out = append(out, t)
			continue
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
