// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// update_log.go remembers which Telegram update ids were already handled.
// Telegram redelivers an update until the webhook answers 2xx, so a slow
// response can otherwise run the same approval twice.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	updateKeyPrefix = "tg:update:"

	// DefaultUpdateTTL covers Telegram's redelivery window with room to spare.
	DefaultUpdateTTL = 24 * time.Hour
)

// UpdateLog records handled update ids in Valkey.
type UpdateLog struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUpdateLog creates an update log backed by the given Valkey client.
func NewUpdateLog(client *redis.Client, ttl time.Duration) *UpdateLog {
	if ttl == 0 {
		ttl = DefaultUpdateTTL
	}
	return &UpdateLog{client: client, ttl: ttl}
}

// Claim marks updateID as handled and reports whether this call was the
// first to do so. When Valkey is unreachable the update is let through.
func (l *UpdateLog) Claim(ctx context.Context, updateID int64) bool {
	ok, err := l.client.SetNX(ctx, updateKey(updateID), time.Now().Unix(), l.ttl).Result()
	if err != nil {
		slog.Warn("update log claim error", "update_id", updateID, "error", err)
		return true
	}
	if !ok {
		slog.Debug("duplicate telegram update", "update_id", updateID)
	}
	return ok
}

// Release forgets updateID so a redelivery is processed again.
func (l *UpdateLog) Release(ctx context.Context, updateID int64) {
	if err := l.client.Del(ctx, updateKey(updateID)).Err(); err != nil {
		slog.Warn("update log release error", "update_id", updateID, "error", err)
	}
}

func updateKey(id int64) string {
	return updateKeyPrefix + strconv.FormatInt(id, 10)
}
