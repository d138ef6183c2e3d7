// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SlideOutline is one slide of a generated deck outline.
type SlideOutline struct {
	Title      string   `json:"title"`
	Bullets    []string `json:"bullets"`
	ImageQuery string   `json:"image_search_query"`
}

const outlineSystemPrompt = `You are a presentation writer. Given a topic, produce an outline
for a slide deck as a JSON array. Each element must be an object with:
  "title": a short slide title,
  "bullets": 3 to 5 concise bullet points (plain strings, no markdown),
  "image_search_query": a 2-4 word stock photo search phrase that suits the slide.
Respond with the JSON array only. No prose, no markdown fences.`

// GenerateOutline asks the active provider for a deck outline on the given
// topic. slideCount is clamped to a sane range so a malformed request cannot
// ask for a thousand slides.
func (r *Registry) GenerateOutline(ctx context.Context, topic string, slideCount int) ([]SlideOutline, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("ai: outline topic is empty")
	}
	if slideCount < 1 {
		slideCount = 5
	}
	if slideCount > 30 {
		slideCount = 30
	}

	userPrompt := fmt.Sprintf("Create an outline with exactly %d slides for a presentation about: %s", slideCount, topic)

	raw, err := r.Generate(ctx, outlineSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	outline, err := parseOutline(raw)
	if err != nil {
		return nil, err
	}
	return outline, nil
}

// parseOutline decodes the model's response into slide outlines. Models
// often wrap JSON in markdown fences despite instructions, so those are
// stripped first.
func parseOutline(raw string) ([]SlideOutline, error) {
	cleaned := extractJSONFromResponse(raw)

	var outline []SlideOutline
	if err := json.Unmarshal([]byte(cleaned), &outline); err != nil {
		return nil, fmt.Errorf("ai: outline response is not valid JSON: %w", err)
	}
	if len(outline) == 0 {
		return nil, fmt.Errorf("ai: outline response contains no slides")
	}

	for i := range outline {
		outline[i].Title = strings.TrimSpace(outline[i].Title)
		if outline[i].Title == "" {
			outline[i].Title = fmt.Sprintf("Slide %d", i+1)
		}
		if len(outline[i].Bullets) == 0 {
			outline[i].Bullets = []string{outline[i].Title}
		}
	}

	return outline, nil
}

// extractJSONFromResponse strips markdown code fences from a model response.
func extractJSONFromResponse(response string) string {
	response = strings.TrimSpace(response)

	// Remove markdown code fences: ```json ... ``` or ``` ... ```
	if strings.HasPrefix(response, "```") {
		// Find the end of the opening fence line.
		firstNewline := strings.Index(response, "\n")
		if firstNewline != -1 {
			response = response[firstNewline+1:]
		}
		// Remove the closing fence.
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
	}

	return strings.TrimSpace(response)
}
