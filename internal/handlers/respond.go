// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON API handlers for the SlideForge
// server: authentication, presentation CRUD, the slide editor protocol,
// AI-assisted operations, and asset uploads.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"slideforge/internal/ai"
)

// maxBodyBytes caps JSON request bodies. Slide documents with embedded
// data-URI backgrounds can be large.
const maxBodyBytes = 16 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into dst, rejecting oversized or
// malformed payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeAIError maps provider failures onto HTTP statuses: quota and auth
// failures from the upstream become 402 so the client can prompt for a
// different provider; anything else is a 502.
func writeAIError(w http.ResponseWriter, err error) {
	var quota *ai.QuotaError
	if errors.As(err, &quota) {
		slog.Warn("ai provider quota exhausted", "provider", quota.Provider, "status", quota.StatusCode)
		writeError(w, http.StatusPaymentRequired,
			fmt.Sprintf("AI provider %s rejected the request (quota or credentials). Check your plan and billing.", quota.Provider))
		return
	}
	slog.Error("ai request failed", "error", err)
	writeError(w, http.StatusBadGateway, "The AI provider could not complete the request. Try again.")
}
