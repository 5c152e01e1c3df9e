// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error kinds that cross package boundaries in
// the card pipeline. Each kind carries the HTTP status and machine-readable
// code the JSON handlers report to callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// Internal is any failure that is not one of the classified kinds.
	Internal Kind = iota
	// NotFound means a referenced card, override or plan does not exist.
	NotFound
	// Validation means caller input is malformed or out of range.
	Validation
	// Conflict means the card's current status does not allow the event.
	Conflict
	// Unavailable means an upstream provider timed out or failed in transport.
	Unavailable
	// Rejected means an upstream provider refused the input (content policy).
	Rejected
	// AssetInvalid means a downloaded image failed format, size or dimension checks.
	AssetInvalid
)

// String returns the code reported in the JSON error envelope.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Validation:
		return "validation_error"
	case Conflict:
		return "invalid_transition"
	case Unavailable:
		return "upstream_unavailable"
	case Rejected:
		return "upstream_rejected"
	case AssetInvalid:
		return "asset_invalid"
	default:
		return "internal_error"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Validation, Rejected, AssetInvalid:
		return http.StatusUnprocessableEntity
	case Conflict:
		return http.StatusConflict
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error. Message is safe to show to API callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind with a caller-facing message.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing message for err. Unclassified errors
// collapse to a generic message so internal details stay in the logs.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
