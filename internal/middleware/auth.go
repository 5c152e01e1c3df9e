// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// Header names checked by the shared-secret middleware.
const (
	APIKeyHeader        = "X-API-Key"
	WebhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// RequireAPIKey rejects pipeline requests whose X-API-Key does not match
// key. An empty key disables the check.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return requireSecret(APIKeyHeader, key, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
}

// RequireWebhookSecret rejects webhook deliveries whose secret token
// header does not match secret. An empty secret disables the check.
func RequireWebhookSecret(secret string) func(http.Handler) http.Handler {
	return requireSecret(WebhookSecretHeader, secret, http.StatusForbidden, "forbidden", "invalid webhook secret")
}

func requireSecret(header, secret string, status int, code, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		want := []byte(secret)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(header))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				slog.Warn("rejected request with bad shared secret",
					"header", header,
					"path", r.URL.Path,
					"remote", r.RemoteAddr,
				)
				writeError(w, status, code, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
