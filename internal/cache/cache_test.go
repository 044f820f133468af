package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](0)
	defer c.Close()

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "gas", 42, 5*time.Second)

	if v, ok := c.Get(ctx, "gas"); !ok || v != 42 {
		t.Fatalf("expected 42, got %d (%v)", v, ok)
	}

	now = now.Add(5 * time.Second)
	if _, ok := c.Get(ctx, "gas"); ok {
		t.Error("expected entry to expire at its deadline")
	}

	c.evictExpired()
	if c.Len() != 0 {
		t.Errorf("expected eviction, %d entries left", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New[string, string](time.Minute)
	defer c.Close()

	c.Set(ctx, "0.0.456858", "USDC", time.Hour)
	c.Delete(ctx, "0.0.456858")

	if _, ok := c.Get(ctx, "0.0.456858"); ok {
		t.Error("expected deleted entry to be gone")
	}
	c.Close()
}
