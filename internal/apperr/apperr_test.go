// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		code   string
	}{
		{NotFound, http.StatusNotFound, "not_found"},
		{Validation, http.StatusUnprocessableEntity, "validation_error"},
		{Conflict, http.StatusConflict, "invalid_transition"},
		{Unavailable, http.StatusServiceUnavailable, "upstream_unavailable"},
		{Rejected, http.StatusUnprocessableEntity, "upstream_rejected"},
		{AssetInvalid, http.StatusUnprocessableEntity, "asset_invalid"},
		{Internal, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := tt.kind.Status(); got != tt.status {
				t.Errorf("Status: got %d, want %d", got, tt.status)
			}
			if got := tt.kind.String(); got != tt.code {
				t.Errorf("String: got %q, want %q", got, tt.code)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := New(NotFound, "card %d not found", 7)
	wrapped := fmt.Errorf("approve phrase: %w", base)

	if got := KindOf(wrapped); got != NotFound {
		t.Errorf("KindOf: got %v, want NotFound", got)
	}
	if !Is(wrapped, NotFound) {
		t.Error("Is(wrapped, NotFound) = false")
	}
	if Is(nil, NotFound) {
		t.Error("Is(nil, NotFound) = true")
	}
	if got := Message(wrapped); got != "card 7 not found" {
		t.Errorf("Message: got %q", got)
	}
}

func TestUnclassifiedError(t *testing.T) {
	err := errors.New("connection reset")
	if got := KindOf(err); got != Internal {
		t.Errorf("KindOf: got %v, want Internal", got)
	}
	if got := Message(err); got != "internal server error" {
		t.Errorf("Message leaked detail: %q", got)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Wrap(Unavailable, cause, "image provider unavailable")

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
	if err.Error() != "image provider unavailable: timeout" {
		t.Errorf("Error(): got %q", err.Error())
	}
}
