// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// Login and 2FA paths against live Postgres and Valkey are covered by
// the store and session integration tests; these check the handler's
// own input handling.

func TestLoginMalformedBody(t *testing.T) {
	h := NewAuth(nil, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/auth/login", nil)
	h.Login(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestMe(t *testing.T) {
	h := NewAuth(nil, nil)

	w := httptest.NewRecorder()
	h.Me(w, authedRequest("GET", "/auth/me", nil, uuid.New()))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["email"] != "editor@example.com" {
		t.Errorf("email: got %q", body["email"])
	}
	if body["two_fa_done"] != true {
		t.Error("session fixture should report completed 2FA")
	}
}
