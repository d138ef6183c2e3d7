// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// images.go provides a Valkey-backed cache for stock photo search results.
// The photo API is rate limited, and users repeat the same short queries
// (the per-slide search phrases), so hits are cheap to keep for a day.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// imageKeyPrefix is the Valkey key prefix for cached search results.
	imageKeyPrefix = "imgsearch:"

	// DefaultImageTTL is how long a search result stays cached.
	DefaultImageTTL = 24 * time.Hour
)

// ImageCache stores image search results (lists of URLs) keyed by query.
type ImageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewImageCache creates a new image search cache backed by the given Valkey client.
func NewImageCache(client *redis.Client, ttl time.Duration) *ImageCache {
	if ttl == 0 {
		ttl = DefaultImageTTL
	}
	return &ImageCache{client: client, ttl: ttl}
}

// Get retrieves cached URLs for a query. Returns false on miss.
func (ic *ImageCache) Get(ctx context.Context, query string) ([]string, bool) {
	val, err := ic.client.Get(ctx, imageKey(query)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("image cache get error", "query", query, "error", err)
		return nil, false
	}

	var urls []string
	if err := json.Unmarshal(val, &urls); err != nil {
		slog.Warn("image cache decode error", "query", query, "error", err)
		return nil, false
	}
	slog.Debug("image cache hit", "query", query)
	return urls, true
}

// Set stores search results for a query with the configured TTL.
func (ic *ImageCache) Set(ctx context.Context, query string, urls []string) {
	val, err := json.Marshal(urls)
	if err != nil {
		slog.Warn("image cache encode error", "query", query, "error", err)
		return
	}
	if err := ic.client.Set(ctx, imageKey(query), val, ic.ttl).Err(); err != nil {
		slog.Warn("image cache set error", "query", query, "error", err)
	}
}

// Invalidate removes a single query's cached results.
func (ic *ImageCache) Invalidate(ctx context.Context, query string) {
	if err := ic.client.Del(ctx, imageKey(query)).Err(); err != nil {
		slog.Warn("image cache invalidate error", "query", query, "error", err)
	}
}

// InvalidateAll removes all cached search results by scanning for the prefix.
func (ic *ImageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := ic.client.Scan(ctx, cursor, imageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("image cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := ic.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("image cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("image cache fully cleared", "deleted", deleted)
	}
}

// imageKey normalizes a query into a cache key. Case and surrounding
// whitespace don't change what the photo API returns.
func imageKey(query string) string {
	return imageKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}
