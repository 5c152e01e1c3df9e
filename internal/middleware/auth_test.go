// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		want   int
	}{
		{"disabled", "", "", http.StatusOK},
		{"disabled ignores header", "", "anything", http.StatusOK},
		{"match", "s3cret", "s3cret", http.StatusOK},
		{"missing", "s3cret", "", http.StatusUnauthorized},
		{"wrong", "s3cret", "s3cres", http.StatusUnauthorized},
		{"prefix", "s3cret", "s3c", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cards/pending", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			rr := httptest.NewRecorder()
			RequireAPIKey(tt.key)(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				var body errorBody
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil || body.Error.Code != "unauthorized" {
					t.Errorf("body: %+v, %v", body, err)
				}
			}
		})
	}
}

func TestRequireWebhookSecret(t *testing.T) {
	h := RequireWebhookSecret("hook-secret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", nil)
	req.Header.Set(WebhookSecretHeader, "hook-secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("matching secret: got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("missing secret: got %d, want 403", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook", nil)
	req.Header.Set(APIKeyHeader, "hook-secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("secret in wrong header: got %d, want 403", rr.Code)
	}
}
