// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// mockImageProvider is a text provider that also generates images. It
// fails every call after failAfter successes when failAfter >= 0.
type mockImageProvider struct {
	mockProvider
	calls     int
	failAfter int
}

func (m *mockImageProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	m.calls++
	if m.failAfter >= 0 && m.calls > m.failAfter {
		return nil, "", fmt.Errorf("image backend down")
	}
	return []byte{0x89, 0x50, byte(m.calls)}, "image/png", nil
}

func newImageRegistry(failAfter int) (*Registry, *mockImageProvider) {
	p := &mockImageProvider{mockProvider: mockProvider{name: "img"}, failAfter: failAfter}
	r := &Registry{
		providers: map[string]Provider{"img": p},
		active:    "img",
	}
	return r, p
}

func TestGenerateImageDataURIs(t *testing.T) {
	r, p := newImageRegistry(-1)

	uris, err := r.GenerateImageDataURIs(context.Background(), "a lake", 3)
	if err != nil {
		t.Fatalf("GenerateImageDataURIs: %v", err)
	}
	if len(uris) != 3 {
		t.Fatalf("got %d uris, want 3", len(uris))
	}
	for i, uri := range uris {
		if !strings.HasPrefix(uri, "data:image/png;base64,") {
			t.Errorf("uri %d: %q", i, uri)
		}
	}
	if p.calls != 3 {
		t.Errorf("provider called %d times, want 3", p.calls)
	}
}

func TestGenerateImageDataURIsPartialSuccess(t *testing.T) {
	r, _ := newImageRegistry(2)

	uris, err := r.GenerateImageDataURIs(context.Background(), "a lake", 4)
	if err != nil {
		t.Fatalf("partial success must not error: %v", err)
	}
	if len(uris) != 2 {
		t.Errorf("got %d uris, want the 2 that succeeded", len(uris))
	}
}

func TestGenerateImageDataURIsAllFail(t *testing.T) {
	r, _ := newImageRegistry(0)

	if _, err := r.GenerateImageDataURIs(context.Background(), "a lake", 2); err == nil {
		t.Fatal("expected error when no image could be generated")
	}
}

func TestGenerateImageDataURIsClampsCount(t *testing.T) {
	r, p := newImageRegistry(-1)

	uris, err := r.GenerateImageDataURIs(context.Background(), "a lake", 0)
	if err != nil {
		t.Fatalf("GenerateImageDataURIs: %v", err)
	}
	if len(uris) != 1 || p.calls != 1 {
		t.Errorf("count 0 should generate exactly one image, got %d", len(uris))
	}
}
