// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for presentation and AI inputs.
const (
	maxTopicLen       = 300
	maxSlideTitleLen  = 300
	maxBulletLen      = 1_000
	maxBulletCount    = 50
	maxInstructionLen = 2_000
	maxImagePromptLen = 2_000
	maxSearchQueryLen = 200
	maxSlideCount     = 30
)

// validateTopic checks a presentation topic and returns the first error found.
func validateTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "Topic is required."
	}
	if utf8.RuneCountInString(topic) > maxTopicLen {
		return "Topic is too long (max 300 characters)."
	}
	return ""
}

// validateSlideText checks a slide title and bullet lines.
func validateSlideText(title *string, content *[]string) string {
	if title != nil && utf8.RuneCountInString(*title) > maxSlideTitleLen {
		return "Slide title is too long (max 300 characters)."
	}
	if content != nil {
		if len(*content) > maxBulletCount {
			return "Too many bullet points (max 50)."
		}
		for _, line := range *content {
			if utf8.RuneCountInString(line) > maxBulletLen {
				return "A bullet point is too long (max 1,000 characters)."
			}
		}
	}
	return ""
}

// validateInstruction checks a refinement instruction.
func validateInstruction(instruction string) string {
	if strings.TrimSpace(instruction) == "" {
		return "Instruction is required."
	}
	if utf8.RuneCountInString(instruction) > maxInstructionLen {
		return "Instruction is too long (max 2,000 characters)."
	}
	return ""
}

// validateImagePrompt checks an AI image generation prompt.
func validateImagePrompt(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return "Image prompt is required."
	}
	if utf8.RuneCountInString(prompt) > maxImagePromptLen {
		return "Image prompt is too long (max 2,000 characters)."
	}
	return ""
}

// validateSearchQuery checks an image search query.
func validateSearchQuery(query string) string {
	if strings.TrimSpace(query) == "" {
		return "Search query is required."
	}
	if utf8.RuneCountInString(query) > maxSearchQueryLen {
		return "Search query is too long (max 200 characters)."
	}
	return ""
}

// clampSlideCount folds a requested deck size into the supported range.
// Zero means "use the default".
func clampSlideCount(n int) int {
	if n <= 0 {
		return 5
	}
	if n > maxSlideCount {
		return maxSlideCount
	}
	return n
}
