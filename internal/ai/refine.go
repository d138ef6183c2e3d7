// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"
)

const refineSystemPrompt = `You are a presentation editor. You will be given the current bullet
points of a single slide and an instruction describing how to change them.
Rewrite the bullet points accordingly. Respond with the new bullet points
only, one per line, no numbering, no markdown fences, no commentary.`

// RefineBullets rewrites a slide's bullet points according to a free-form
// instruction. The result replaces the slide's content wholesale.
func (r *Registry) RefineBullets(ctx context.Context, slideTitle string, current []string, instruction string) ([]string, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, fmt.Errorf("ai: refine instruction is empty")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Slide title: %s\n\nCurrent bullet points:\n", slideTitle)
	for _, line := range current {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	fmt.Fprintf(&sb, "\nInstruction: %s", instruction)

	raw, err := r.Generate(ctx, refineSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	bullets := ParseBulletLines(raw)
	if len(bullets) == 0 {
		return nil, fmt.Errorf("ai: refine response contains no usable lines")
	}
	return bullets, nil
}

// ParseBulletLines splits a model response into bullet points: one bullet
// per line, blank lines dropped, leading list markers stripped. Models tend
// to prepend "- " or "* " even when told not to.
func ParseBulletLines(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(line[len(marker):])
				break
			}
		}
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
	}
	return bullets
}
