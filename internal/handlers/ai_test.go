// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"slideforge/internal/ai"
)

// fakeSearcher returns canned search results.
type fakeSearcher struct {
	urls []string
	err  error
	got  string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, count int) ([]string, error) {
	f.got = query
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

func TestSearchImagesUnconfigured(t *testing.T) {
	h := NewAI(fakeRegistry("", nil), nil, nil)

	w := httptest.NewRecorder()
	h.SearchImages(w, authedRequest("GET", "/ai/search?q=mountains", nil, uuid.New()))

	if w.Code != http.StatusNotImplemented {
		t.Errorf("status: got %d, want 501", w.Code)
	}
}

func TestSearchImages(t *testing.T) {
	searcher := &fakeSearcher{urls: []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"}}
	h := NewAI(fakeRegistry("", nil), searcher, nil)

	w := httptest.NewRecorder()
	h.SearchImages(w, authedRequest("GET", "/ai/search?q=mountain+sunrise", nil, uuid.New()))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	if searcher.got != "mountain sunrise" {
		t.Errorf("query passed to searcher: %q", searcher.got)
	}
	body := decodeBody(t, w)
	if urls := body["urls"].([]any); len(urls) != 2 {
		t.Errorf("urls: got %v", urls)
	}
	if body["cached"] != false {
		t.Error("first hit should not be cached")
	}
}

func TestSearchImagesEmptyQuery(t *testing.T) {
	h := NewAI(fakeRegistry("", nil), &fakeSearcher{}, nil)

	w := httptest.NewRecorder()
	h.SearchImages(w, authedRequest("GET", "/ai/search", nil, uuid.New()))

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestSearchImagesQuotaExhausted(t *testing.T) {
	searcher := &fakeSearcher{err: &ai.QuotaError{Provider: "pexels", StatusCode: 429}}
	h := NewAI(fakeRegistry("", nil), searcher, nil)

	w := httptest.NewRecorder()
	h.SearchImages(w, authedRequest("GET", "/ai/search?q=city", nil, uuid.New()))

	if w.Code != http.StatusPaymentRequired {
		t.Errorf("status: got %d, want 402", w.Code)
	}
}

func TestGenerateImageEmptyPrompt(t *testing.T) {
	h := NewAI(fakeRegistry("", nil), nil, nil)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/ai/image", []byte(`{"prompt":"  "}`), uuid.New())
	h.GenerateImage(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestGenerateImageUnsupportedProvider(t *testing.T) {
	// The fake text provider does not implement image generation, so the
	// request surfaces as a provider failure.
	h := NewAI(fakeRegistry("irrelevant", nil), nil, nil)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/ai/image", []byte(`{"prompt":"a calm lake at dawn"}`), uuid.New())
	h.GenerateImage(w, r)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", w.Code)
	}
}

func TestProvidersList(t *testing.T) {
	h := NewAI(fakeRegistry("", nil), nil, nil)

	w := httptest.NewRecorder()
	h.Providers(w, authedRequest("GET", "/providers", nil, uuid.New()))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["active"] != "fake" {
		t.Errorf("active: got %q", body["active"])
	}
}

func TestSetProviderUnknown(t *testing.T) {
	h := NewAI(fakeRegistry("", nil), nil, nil)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/providers", []byte(`{"name":"nonexistent"}`), uuid.New())
	h.SetProvider(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestSetProvider(t *testing.T) {
	reg := fakeRegistry("", nil)
	reg.Register("other", &fakeProvider{})
	h := NewAI(reg, nil, nil)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/providers", []byte(`{"name":"other"}`), uuid.New())
	h.SetProvider(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	if got := reg.ActiveName(); got != "other" {
		t.Errorf("active after switch: %q", got)
	}
}

func TestGenerateImageModerationNotConfigured(t *testing.T) {
	// Without a moderator the gate is permissive; the request proceeds to
	// the provider and fails there, not at moderation.
	h := NewAI(fakeRegistry("", nil), nil, nil)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/ai/image", []byte(`{"prompt":"ordinary landscape"}`), uuid.New())
	h.GenerateImage(w, r)

	if w.Code == http.StatusUnprocessableEntity && strings.Contains(w.Body.String(), "moderation") {
		t.Error("request must not be refused by an absent moderator")
	}
}
