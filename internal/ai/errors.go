// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// QuotaError reports that a provider rejected a request for billing or
// authorisation reasons (invalid key, exhausted credits, rate limit).
// Handlers map it to a distinct status so the client can tell "out of
// credits" apart from a transient upstream failure.
type QuotaError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: quota or authorisation failure (status %d): %s",
		e.Provider, e.StatusCode, e.Body)
}

// IsQuota reports whether err (or anything it wraps) is a QuotaError.
func IsQuota(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// apiError converts a non-200 provider response into an error. Status codes
// that indicate key or credit problems become a *QuotaError; everything else
// is a plain formatted error.
func apiError(provider string, statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusPaymentRequired,
		http.StatusForbidden, http.StatusTooManyRequests:
		return &QuotaError{Provider: provider, StatusCode: statusCode, Body: string(body)}
	}
	return fmt.Errorf("%s API error (status %d): %s", provider, statusCode, string(body))
}
