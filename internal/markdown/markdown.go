// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts slide text into HTML for the editor's preview
// pane using goldmark. Bullet points may carry inline Markdown (emphasis,
// links, code spans); raw HTML is stripped since the text is user supplied.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting( // fenced code blocks in technical decks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// source is omitted, not passed through.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BulletsToHTML renders a slide's bullet points as a single Markdown list.
func BulletsToHTML(bullets []string) (string, error) {
	var sb strings.Builder
	for _, b := range bullets {
		sb.WriteString("- ")
		sb.WriteString(b)
		sb.WriteString("\n")
	}
	return ToHTML(sb.String())
}
