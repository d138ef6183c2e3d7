// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export transforms a presentation snapshot into a PowerPoint
// (.pptx) file. The transform is a pure mapping over the document — one
// output slide per input slide, in order — with two deliberate, documented
// approximations: gradients collapse to their first hex color literal
// (the format has no native CSS-gradient support), and video backgrounds
// collapse to a flat white fill.
package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"slideforge/internal/background"
	"slideforge/internal/models"
)

// Text defaults applied when a style field resolves to something
// unparseable.
const (
	defaultTitleSize = 24
	defaultBodySize  = 14
	defaultTitleHex  = "000000"
	defaultBodyHex   = "333333"
	defaultFont      = "Calibri"
)

// maxImageBytes caps a fetched background or logo image.
const maxImageBytes = 20 << 20

// Exporter builds pptx files. External image URLs are downloaded and
// embedded; the HTTP client is injectable for tests.
type Exporter struct {
	client *http.Client
}

// New creates an Exporter with a sane download timeout.
func New() *Exporter {
	return &Exporter{client: &http.Client{Timeout: 15 * time.Second}}
}

// NewWithClient creates an Exporter using the given HTTP client.
func NewWithClient(c *http.Client) *Exporter {
	return &Exporter{client: c}
}

// Export renders the presentation to pptx bytes. The transform either
// succeeds wholly or fails wholly — partial output is never returned.
func (e *Exporter) Export(ctx context.Context, p *models.Presentation) ([]byte, error) {
	if len(p.Slides) == 0 {
		return nil, fmt.Errorf("export: presentation %s has no slides", p.ID)
	}

	pk := &pkg{}

	// The logo is shared by every slide; fetch it once. A failed fetch
	// drops the overlay rather than failing the export.
	var logoMedia string
	if p.Branding.CompanyLogo != "" {
		data, ct, err := e.loadImage(ctx, p.Branding.CompanyLogo)
		if err != nil {
			slog.Warn("export: company logo unavailable, omitting", "error", err)
		} else {
			logoMedia = pk.addMedia(data, ct)
		}
	}

	for i := range p.Slides {
		slide := &p.Slides[i]
		spec, rels := e.buildSpec(ctx, pk, p, slide, logoMedia)
		pk.slides = append(pk.slides, renderedSlide{xml: buildSlideXML(spec), rels: rels})
	}

	data, err := pk.write()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// buildSpec resolves one slide into a fully-concrete slideSpec plus its
// media relationships.
func (e *Exporter) buildSpec(ctx context.Context, pk *pkg, p *models.Presentation, s *models.Slide, logoMedia string) (slideSpec, []relationship) {
	titleStyle := models.ResolveTitleStyle(s, &p.Theme)
	bodyStyle := models.ResolveContentStyle(s, &p.Theme)

	spec := slideSpec{
		Title:      s.Title,
		Bullets:    s.Content,
		TitleStyle: toSlideText(titleStyle, defaultTitleSize, defaultTitleHex),
		BodyStyle:  toSlideText(bodyStyle, defaultBodySize, defaultBodyHex),
		website:    p.Branding.CompanyWebsite,
	}

	var rels []relationship
	nextRel := 2 // rId1 is the slide layout

	desc := background.Parse(s.BackgroundImage)
	switch desc.Kind {
	case background.KindColor:
		spec.fillColor = normalizeHex(desc.Raw, "FFFFFF")
	case background.KindGradient:
		// Lossy fallback: flat fill from the first hex literal.
		spec.fillColor = background.FirstHexColor(desc.Raw)
	case background.KindVideo:
		spec.fillColor = "FFFFFF"
	case background.KindImage:
		data, ct, err := e.loadImage(ctx, desc.Raw)
		if err != nil {
			slog.Warn("export: slide background unavailable, using theme fill",
				"slide", s.ID, "error", err)
			spec.fillColor = normalizeHex(p.Theme.Colors.Background, "FFFFFF")
			break
		}
		name := pk.addMedia(data, ct)
		id := fmt.Sprintf("rId%d", nextRel)
		nextRel++
		rels = append(rels, relationship{id: id, target: name})
		spec.bgImageRel = id
	}

	if logoMedia != "" {
		id := fmt.Sprintf("rId%d", nextRel)
		rels = append(rels, relationship{id: id, target: logoMedia})
		spec.logoRel = id
	}

	return spec, rels
}

// loadImage resolves an image reference to raw bytes: data URIs are
// decoded inline, anything else is fetched over HTTP.
func (e *Exporter) loadImage(ctx context.Context, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURI(ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("export: image request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("export: image fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("export: image fetch status %d for %s", resp.StatusCode, ref)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("export: image read: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("export: image exceeds %d bytes", maxImageBytes)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/png"
	}
	return data, ct, nil
}

// decodeDataURI splits and decodes a base64 data URI.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("export: not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("export: malformed data URI")
	}

	ct, _, _ := strings.Cut(meta, ";")
	if ct == "" {
		ct = "image/png"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("export: data URI decode: %w", err)
	}
	return data, ct, nil
}

// toSlideText converts an effective style into the concrete run style
// slide XML needs, parsing the CSS-flavored values.
func toSlideText(st models.EffectiveStyle, defaultSize int, defaultHex string) slideText {
	return slideText{
		Size:   parsePixelSize(st.FontSize, defaultSize),
		Color:  normalizeHex(st.Color, defaultHex),
		Font:   firstFontFamily(st.FontFamily),
		Bold:   st.FontWeight == "bold",
		Italic: st.Italic,
	}
}

// parsePixelSize strips the unit suffix from a size string like "24px"
// and returns the numeric value, or fallback when unparseable.
func parsePixelSize(s string, fallback int) int {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return fallback
	}
	n := 0
	for _, c := range s[:i] {
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}

var hexBody = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// normalizeHex strips the '#' from a hex color and expands 3-digit
// shorthand; anything else collapses to the fallback.
func normalizeHex(s, fallback string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		var b strings.Builder
		for _, c := range s {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		s = b.String()
	}
	if !hexBody.MatchString(s) {
		return fallback
	}
	return strings.ToUpper(s)
}

// firstFontFamily returns the first comma-separated entry of a CSS font
// stack with surrounding quotes stripped.
func firstFontFamily(stack string) string {
	first, _, _ := strings.Cut(stack, ",")
	first = strings.TrimSpace(first)
	first = strings.Trim(first, `'"`)
	if first == "" {
		return defaultFont
	}
	return first
}

// nonAlphanumeric matches every run of characters that is not a letter
// or digit.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Filename derives the download file name from the presentation topic:
// all non-alphanumeric runs collapse to single underscores.
func Filename(topic string) string {
	name := nonAlphanumeric.ReplaceAllString(topic, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "presentation"
	}
	return name + ".pptx"
}
