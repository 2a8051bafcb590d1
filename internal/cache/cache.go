// Package cache provides an optional Redis read cache for slot
// availability queries. When no Redis client is configured every
// operation degrades to a no-op and callers hit the database directly.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// SlotCache caches per-date slot listings keyed by date. Any slot or
// booking mutation on a date must invalidate that date's entry.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotCache wraps the Redis client. A nil client or non-positive
// ttl yields a disabled cache.
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

func (c *SlotCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func availableKey(date string) string { return "agenda:slots:available:" + date }

// GetAvailable returns the cached available slots for the date, or
// false when the cache misses or is disabled.
func (c *SlotCache) GetAvailable(ctx context.Context, date string) ([]models.Slot, bool) {
	if !c.enabled() {
		return nil, false
	}
	val, err := c.client.Get(ctx, availableKey(date)).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(val), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// SetAvailable stores the date's available slots. Failures are
// swallowed; the cache is an accelerator, never a source of truth.
func (c *SlotCache) SetAvailable(ctx context.Context, date string, slots []models.Slot) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, availableKey(date), data, c.ttl).Err()
}

// InvalidateDate drops the cached listing for the date.
func (c *SlotCache) InvalidateDate(ctx context.Context, date string) {
	if !c.enabled() {
		return
	}
	_ = c.client.Del(ctx, availableKey(date)).Err()
}

// InvalidateAll drops every cached slot listing. Used after bulk
// operations such as grid regeneration or a full slot reset.
func (c *SlotCache) InvalidateAll(ctx context.Context) {
	if !c.enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, "agenda:slots:available:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}
