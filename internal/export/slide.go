// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// slide.go renders one slide part: background fill, branding overlays,
// title box, and bulleted body text.
package export

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// slideText is a resolved run style for one text block. Size is in
// points; Color is a bare RRGGBB hex.
type slideText struct {
	Size   int
	Color  string
	Font   string
	Bold   bool
	Italic bool
}

// slideSpec is everything slide XML generation needs, fully resolved —
// no style fallback logic survives past this point.
type slideSpec struct {
	Title      string
	TitleStyle slideText
	Bullets    []string
	BodyStyle  slideText

	// Background: exactly one of fillColor (bare hex) or bgImageRel
	// (relationship id of an embedded picture) is set.
	fillColor  string
	bgImageRel string

	// Branding overlays; empty means omitted.
	logoRel string
	website string
}

// Overlay geometry in EMU. The logo sits near the top-left, the website
// string near the bottom-right.
const (
	logoX, logoY       = 304800, 228600
	logoW, logoH       = 1143000, 1143000
	websiteX, websiteY = 8229600, 6400800
	websiteW, websiteH = 3657600, 304800

	titleX, titleY = 838200, 457200
	titleW, titleH = 10515600, 1325563
	bodyX, bodyY   = 838200, 1981200
	bodyW, bodyH   = 10515600, 4419600
)

// buildSlideXML renders the slide part. Shape ids start at 2 (1 is the
// group shape itself).
func buildSlideXML(s slideSpec) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld>`)

	// Background fill.
	if s.bgImageRel != "" {
		fmt.Fprintf(&b, `<p:bg><p:bgPr><a:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></a:blipFill><a:effectLst/></p:bgPr></p:bg>`, s.bgImageRel)
	} else {
		fmt.Fprintf(&b, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, s.fillColor)
	}

	b.WriteString(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	shapeID := 2

	// Company logo overlay, fixed position and size near the top-left.
	if s.logoRel != "" {
		fmt.Fprintf(&b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Company Logo"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr><p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
			shapeID, s.logoRel, logoX, logoY, logoW, logoH)
		shapeID++
	}

	// Title box.
	b.WriteString(textBox(shapeID, "Title", titleX, titleY, titleW, titleH,
		[]paragraph{{text: s.Title, style: s.TitleStyle}}, "l"))
	shapeID++

	// Body box: one bulleted paragraph per content line.
	if len(s.Bullets) > 0 {
		paras := make([]paragraph, len(s.Bullets))
		for i, line := range s.Bullets {
			paras[i] = paragraph{text: line, style: s.BodyStyle, bullet: true}
		}
		b.WriteString(textBox(shapeID, "Content", bodyX, bodyY, bodyW, bodyH, paras, "l"))
		shapeID++
	}

	// Company website overlay, small right-aligned text bottom-right.
	if s.website != "" {
		style := slideText{Size: 10, Color: s.BodyStyle.Color, Font: s.BodyStyle.Font}
		b.WriteString(textBox(shapeID, "Company Website", websiteX, websiteY, websiteW, websiteH,
			[]paragraph{{text: s.website, style: style}}, "r"))
	}

	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

// paragraph is one line of a text box.
type paragraph struct {
	text   string
	style  slideText
	bullet bool
}

// textBox renders a free-floating text shape. align is "l" or "r".
func textBox(id int, name string, x, y, w, h int, paras []paragraph, align string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, name)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, x, y, w, h)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)

	for _, p := range paras {
		fmt.Fprintf(&b, `<a:p><a:pPr algn="%s">`, align)
		if p.bullet {
			b.WriteString(`<a:buChar char="&#8226;"/>`)
		} else {
			b.WriteString(`<a:buNone/>`)
		}
		b.WriteString(`</a:pPr>`)
		b.WriteString(textRun(p.text, p.style))
		b.WriteString(`</a:p>`)
	}

	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

// textRun renders one styled run.
func textRun(text string, st slideText) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US" sz="%d"`, st.Size*100)
	if st.Bold {
		b.WriteString(` b="1"`)
	}
	if st.Italic {
		b.WriteString(` i="1"`)
	}
	b.WriteString(` dirty="0">`)
	fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, st.Color)
	fmt.Fprintf(&b, `<a:latin typeface="%s"/>`, escapeXML(st.Font))
	b.WriteString(`</a:rPr>`)
	fmt.Fprintf(&b, `<a:t>%s</a:t></a:r>`, escapeXML(text))
	return b.String()
}

// escapeXML escapes text for embedding in attribute or element content.
func escapeXML(s string) string {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		// EscapeText only fails on writer errors, which strings.Builder
		// never produces.
		return strconv.Quote(s)
	}
	return buf.String()
}
