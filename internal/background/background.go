// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package background classifies slide background descriptors. A background
// is persisted as a single tagged string — hex color, CSS linear-gradient
// expression, data URI, or external URL/video reference — and both the
// preview surface and the export transform must classify it identically,
// so the classification lives here and nowhere else.
package background

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the resolved class of a background descriptor.
type Kind int

const (
	// KindImage is the default class: any descriptor that is not a
	// color, gradient, or video is treated as a static image URL or
	// data URI.
	KindImage Kind = iota
	KindColor
	KindGradient
	KindVideo
)

// String returns the lowercase class name, used in JSON responses.
func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindGradient:
		return "gradient"
	case KindVideo:
		return "video"
	default:
		return "image"
	}
}

// Descriptor is the parsed form of a background string. Raw keeps the
// serialization form unchanged; Kind drives rendering and export.
type Descriptor struct {
	Kind Kind
	Raw  string
}

// Parse classifies a background string. It is total: every input maps to
// exactly one class and no input is an error. Precedence: color, gradient,
// video, then image as the fallback.
func Parse(s string) Descriptor {
	switch {
	case strings.HasPrefix(s, "#"):
		return Descriptor{Kind: KindColor, Raw: s}
	case strings.HasPrefix(s, "linear-gradient("):
		return Descriptor{Kind: KindGradient, Raw: s}
	case strings.HasPrefix(s, "data:video"),
		strings.HasSuffix(s, ".mp4"),
		strings.HasSuffix(s, ".webm"):
		return Descriptor{Kind: KindVideo, Raw: s}
	default:
		return Descriptor{Kind: KindImage, Raw: s}
	}
}

// IsDataURI reports whether the raw descriptor is an inline data URI.
func (d Descriptor) IsDataURI() bool {
	return strings.HasPrefix(d.Raw, "data:")
}

// gradientDirections are the accepted keyword direction tokens.
var gradientDirections = map[string]bool{
	"to right":  true,
	"to left":   true,
	"to bottom": true,
	"to top":    true,
}

// degreePattern matches an explicit angle direction such as "135deg".
var degreePattern = regexp.MustCompile(`^\d{1,3}deg$`)

// fullHexPattern matches an exact #RRGGBB color literal.
var fullHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// BuildLinearGradient produces a CSS linear-gradient expression from a
// start color, end color, and a direction token. Colors must be full
// #RRGGBB literals and the direction must be one of the "to <side>"
// keywords or an explicit degree value.
func BuildLinearGradient(start, end, direction string) (string, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if !fullHexPattern.MatchString(start) {
		return "", fmt.Errorf("background: invalid gradient color %q", start)
	}
	if !fullHexPattern.MatchString(end) {
		return "", fmt.Errorf("background: invalid gradient color %q", end)
	}
	direction = strings.TrimSpace(direction)
	if !gradientDirections[direction] && !degreePattern.MatchString(direction) {
		return "", fmt.Errorf("background: invalid gradient direction %q", direction)
	}
	return fmt.Sprintf("linear-gradient(%s, %s, %s)", direction, start, end), nil
}

// hexColorPattern matches a 6-hex-digit color literal inside an arbitrary
// expression.
var hexColorPattern = regexp.MustCompile(`#([0-9a-fA-F]{6})`)

// FirstHexColor extracts the first 6-digit hex color literal from a
// gradient expression, without the leading '#'. Returns "FFFFFF" when the
// expression carries no hex literal — the export fallback for gradients
// the destination format cannot represent.
func FirstHexColor(expr string) string {
	m := hexColorPattern.FindStringSubmatch(expr)
	if m == nil {
		return "FFFFFF"
	}
	return strings.ToUpper(m[1])
}
