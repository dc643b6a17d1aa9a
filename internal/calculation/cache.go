// AngelaMos | 2026
// cache.go

package calculation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// HistoryCache is a fail-open read cache for history listings. Every error
// degrades to a database read; the ledger never depends on redis being up.
type HistoryCache interface {
	Get(ctx context.Context, userID, typ string, limit int) ([]HistoryEntry, bool)
	Set(ctx context.Context, userID, typ string, limit int, entries []HistoryEntry)
	Invalidate(ctx context.Context, userID string)
}

// RedisCache stamps every entry key with a per-user version counter, so
// invalidation is a single INCR and stale entries age out via TTL instead of
// being scanned for.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

const versionKeyTTL = 24 * time.Hour

func (c *RedisCache) Get(
	ctx context.Context,
	userID, typ string,
	limit int,
) ([]HistoryEntry, bool) {
	key, err := c.entryKey(ctx, userID, typ, limit)
	if err != nil {
		slog.Warn("history cache version lookup failed", "error", err)
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("history cache read failed", "error", err)
		}
		return nil, false
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Warn("history cache decode failed", "error", err)
		return nil, false
	}

	return entries, true
}

func (c *RedisCache) Set(
	ctx context.Context,
	userID, typ string,
	limit int,
	entries []HistoryEntry,
) {
	key, err := c.entryKey(ctx, userID, typ, limit)
	if err != nil {
		slog.Warn("history cache version lookup failed", "error", err)
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		slog.Warn("history cache encode failed", "error", err)
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("history cache write failed", "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) {
	key := versionKey(userID)

	if err := c.client.Incr(ctx, key).Err(); err != nil {
		slog.Warn("history cache invalidation failed", "error", err)
		return
	}

	//nolint:errcheck // best-effort expiry refresh
	_ = c.client.Expire(ctx, key, versionKeyTTL).Err()
}

func (c *RedisCache) entryKey(
	ctx context.Context,
	userID, typ string,
	limit int,
) (string, error) {
	version, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}

	return fmt.Sprintf(
		"calc:history:%s:%d:%s:%d",
		userID,
		version,
		typ,
		limit,
	), nil
}

func versionKey(userID string) string {
	return "calc:version:" + userID
}

var _ HistoryCache = (*RedisCache)(nil)
