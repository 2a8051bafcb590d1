package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

func TestDisabledCacheIsNoOp(t *testing.T) {
	ctx := context.Background()
	slots := []models.Slot{{ID: "s1", Date: "2025-06-02", TimeSlot: "09:00"}}

	for name, c := range map[string]*SlotCache{
		"nil client": NewSlotCache(nil, time.Minute),
		"zero ttl":   NewSlotCache(nil, 0),
		"nil cache":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			c.SetAvailable(ctx, "2025-06-02", slots)
			got, ok := c.GetAvailable(ctx, "2025-06-02")
			assert.False(t, ok)
			assert.Nil(t, got)

			c.InvalidateDate(ctx, "2025-06-02")
			c.InvalidateAll(ctx)
		})
	}
}
