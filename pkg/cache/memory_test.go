package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "hello", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	if err := mc.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", 42, 50*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got int
	if err := mc.Get(ctx, "k", &got); err != nil || got != 42 {
		t.Fatalf("fresh get: %v %d", err, got)
	}

	time.Sleep(60 * time.Millisecond)

	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
	if mc.Len() != 0 {
		t.Fatalf("expired entry not dropped on read, len=%d", mc.Len())
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("set a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := mc.Set(ctx, "b", 2, time.Minute); err != nil {
		t.Fatalf("set b: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	// Touch "a" so "b" becomes the least recently used
	var v int
	if err := mc.Get(ctx, "a", &v); err != nil {
		t.Fatalf("get a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if err := mc.Set(ctx, "c", 3, time.Minute); err != nil {
		t.Fatalf("set c: %v", err)
	}

	if err := mc.Get(ctx, "b", &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected b evicted, got %v", err)
	}
	if err := mc.Get(ctx, "a", &v); err != nil {
		t.Fatalf("a should survive: %v", err)
	}
	if err := mc.Get(ctx, "c", &v); err != nil {
		t.Fatalf("c should be present: %v", err)
	}
}

func TestMemoryDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "brief:2025-08-09", "x", time.Minute)
	_ = mc.Set(ctx, "brief:2025-08-10", "y", time.Minute)
	_ = mc.Set(ctx, "pulse:policy", "z", time.Minute)

	if err := mc.DeleteByPattern(ctx, "brief:*"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got string
	if err := mc.Get(ctx, "brief:2025-08-09", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("brief key should be gone, got %v", err)
	}
	if err := mc.Get(ctx, "pulse:policy", &got); err != nil {
		t.Fatalf("pulse key should survive: %v", err)
	}
}

func TestMemoryStructRoundTrip(t *testing.T) {
	type point struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}

	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := []point{{Date: "2025-08-01", Value: 101.5}, {Date: "2025-08-02", Value: 99.25}}
	if err := mc.Set(ctx, "series", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []point
	if err := mc.Get(ctx, "series", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out) != 2 || out[1].Value != 99.25 {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}
