// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slideforge/internal/middleware"
	"slideforge/internal/models"
	"slideforge/internal/store"
)

// Users handles admin account management.
type Users struct {
	userStore *store.UserStore
}

func NewUsers(userStore *store.UserStore) *Users {
	return &Users{userStore: userStore}
}

// List returns every account. Password hashes and TOTP secrets never
// serialize.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Create adds an account. New users go through 2FA setup on first login.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleAdmin && role != models.RoleMember {
		writeError(w, http.StatusUnprocessableEntity, "role must be admin or member")
		return
	}

	if existing, err := h.userStore.FindByEmail(req.Email); err == nil && existing != nil {
		writeError(w, http.StatusConflict, "a user with that email already exists")
		return
	}

	u, err := h.userStore.Create(req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create user")
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Delete removes an account and, via the foreign key cascade, its
// presentations. Admins cannot delete themselves.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.UserID == id {
		writeError(w, http.StatusUnprocessableEntity, "you cannot delete your own account")
		return
	}

	u, err := h.userStore.FindByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userStore.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "could not delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset2FA clears a user's TOTP enrollment so they re-enroll on next
// login. The recovery path for a lost authenticator.
func (h *Users) Reset2FA(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	u, err := h.userStore.FindByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userStore.ResetTOTP(id); err != nil {
		writeError(w, http.StatusInternalServerError, "could not reset 2fa")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reset": true})
}
