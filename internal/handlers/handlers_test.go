// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Shared test fixtures for the handler tests: a fake AI provider, an
// authenticated request helper, and a sample in-memory presentation.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"slideforge/internal/ai"
	"slideforge/internal/middleware"
	"slideforge/internal/models"
	"slideforge/internal/session"
	"slideforge/internal/themes"
)

// fakeProvider returns a canned response for every Generate call.
type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

// fakeRegistry builds an ai.Registry whose active provider is the fake.
func fakeRegistry(response string, err error) *ai.Registry {
	r := ai.NewRegistry("", nil)
	r.Register("fake", &fakeProvider{response: response, err: err})
	r.SetActive("fake")
	return r
}

// authedRequest builds a request carrying a completed-2FA session for
// the given user, as the middleware chain would after login.
func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(r.Context(), middleware.SessionKey, &session.Data{
		UserID:    userID,
		Email:     "editor@example.com",
		Role:      "member",
		TwoFADone: true,
	})
	return r.WithContext(ctx)
}

// testPresentation builds a two-slide deck owned by userID.
func testPresentation(userID uuid.UUID) models.Presentation {
	first := models.NewSlide()
	first.Title = "Opening"
	first.Content = []string{"Welcome", "Agenda"}
	second := models.NewSlide()
	second.Title = "Details"
	second.Content = []string{"Point one", "Point two"}

	return models.Presentation{
		ID:     uuid.New(),
		UserID: userID,
		Topic:  "Quarterly Review",
		Slides: []models.Slide{first, second},
		Theme:  themes.Default(),
	}
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
