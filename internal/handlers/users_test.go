// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Validation-layer tests; persistence paths are exercised by the store
// integration tests.

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing email", `{"password":"longenough"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"email":"not-an-email","password":"longenough"}`, http.StatusUnprocessableEntity},
		{"short password", `{"email":"new@example.com","password":"short"}`, http.StatusUnprocessableEntity},
		{"bad role", `{"email":"new@example.com","password":"longenough","role":"superuser"}`, http.StatusUnprocessableEntity},
		{"malformed body", `{not json`, http.StatusBadRequest},
	}

	h := NewUsers(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Create(w, authedRequest("POST", "/users", []byte(tt.body), uuid.New()))
			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestDeleteUserInvalidID(t *testing.T) {
	h := NewUsers(nil)

	mux := chi.NewRouter()
	mux.Delete("/users/{id}", h.Delete)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest("DELETE", "/users/not-a-uuid", nil, uuid.New()))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestDeleteUserSelf(t *testing.T) {
	h := NewUsers(nil)
	admin := uuid.New()

	mux := chi.NewRouter()
	mux.Delete("/users/{id}", h.Delete)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest("DELETE", fmt.Sprintf("/users/%s", admin), nil, admin))

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestReset2FAInvalidID(t *testing.T) {
	h := NewUsers(nil)

	mux := chi.NewRouter()
	mux.Post("/users/{id}/reset-2fa", h.Reset2FA)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest("POST", "/users/nope/reset-2fa", nil, uuid.New()))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}
