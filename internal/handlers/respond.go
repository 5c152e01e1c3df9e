// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API of the card pipeline.
// Handlers decode and validate requests, call the pipeline, theme and
// approval services, and map their classified errors onto HTTP statuses.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/middleware"
	"ecardfactory/internal/pipeline"
)

// maxBodyBytes caps request bodies. Final-approval previews arrive base64
// encoded, so the cap is generous.
const maxBodyBytes = 16 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details any               `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps err onto the error envelope. Unclassified errors are
// logged and reported as a generic internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		slog.Error("request failed",
			"request_id", middleware.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	detail := errorDetail{Code: kind.String(), Message: apperr.Message(err)}
	var assetErr *pipeline.AssetError
	if errors.As(err, &assetErr) {
		detail.Details = assetErr.Report
	}
	writeJSON(w, kind.Status(), errorBody{Error: detail})
}

// writeBadRequest reports a malformed request.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Code: "bad_request", Message: message}})
}

// decode reads a JSON body into dst and validates it. It writes the error
// response and returns false when the body is unusable: 400 for malformed
// JSON, 422 with per-field tags for validation failures.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeBadRequest(w, "request body is empty")
		} else {
			writeBadRequest(w, "invalid JSON body: "+err.Error())
		}
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			writeBadRequest(w, "invalid input")
			return false
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: errorDetail{
			Code:    apperr.Validation.String(),
			Message: "request validation failed",
			Fields:  fields,
		}})
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. It writes a 400 and returns false
// when the id is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// queryLimit parses ?limit= within [1, max], defaulting to def. It writes
// a 422 and returns false when the value is out of range.
func queryLimit(w http.ResponseWriter, r *http.Request, def, max int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		writeError(w, r, apperr.New(apperr.Validation, "limit must be between 1 and %d", max))
		return 0, false
	}
	return n, true
}

