// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"testing"
)

func TestValidateTopic(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		wantErr bool
	}{
		{"valid", "The history of aviation", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("x", 301), true},
		{"at limit", strings.Repeat("x", 300), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateTopic(tt.topic)
			if (got != "") != tt.wantErr {
				t.Errorf("validateTopic(%q) = %q, wantErr %v", tt.topic, got, tt.wantErr)
			}
		})
	}
}

func TestValidateSlideText(t *testing.T) {
	longTitle := strings.Repeat("x", 301)
	longBullet := []string{strings.Repeat("x", 1001)}
	manyBullets := make([]string, 51)

	if msg := validateSlideText(&longTitle, nil); msg == "" {
		t.Error("expected error for over-long title")
	}
	if msg := validateSlideText(nil, &longBullet); msg == "" {
		t.Error("expected error for over-long bullet")
	}
	if msg := validateSlideText(nil, &manyBullets); msg == "" {
		t.Error("expected error for too many bullets")
	}
	ok := "Fine title"
	bullets := []string{"one", "two"}
	if msg := validateSlideText(&ok, &bullets); msg != "" {
		t.Errorf("unexpected error: %q", msg)
	}
	if msg := validateSlideText(nil, nil); msg != "" {
		t.Errorf("nil fields should validate: %q", msg)
	}
}

func TestClampSlideCount(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 5},
		{-3, 5},
		{1, 1},
		{12, 12},
		{30, 30},
		{100, 30},
	}
	for _, tt := range tests {
		if got := clampSlideCount(tt.in); got != tt.want {
			t.Errorf("clampSlideCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
