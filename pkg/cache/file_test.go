package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fc, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := fc.Set(ctx, "quote:^GSPC", map[string]float64{"last": 5000, "prev": 4970}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	// New instance over the same directory sees the entry
	fc2, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got map[string]float64
	if err := fc2.Get(ctx, "quote:^GSPC", &got); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got["last"] != 5000 {
		t.Fatalf("unexpected value: %v", got)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := fc.Set(ctx, "k", "v", 30*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	var got string
	if err := fc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}

func TestFileCacheDeleteByPattern(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	_ = fc.Set(ctx, "brief:2025-08-09", "x", time.Minute)
	_ = fc.Set(ctx, "other", "y", time.Minute)

	if err := fc.DeleteByPattern(ctx, "brief:*"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got string
	if err := fc.Get(ctx, "brief:2025-08-09", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("brief key should be gone, got %v", err)
	}
	if err := fc.Get(ctx, "other", &got); err != nil {
		t.Fatalf("other key should survive: %v", err)
	}
}

func TestMirroredReadThrough(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	mc, err := NewMirroredCache(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := mc.Set(ctx, "k", "warm", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = mc.Close()

	// Fresh mirrored cache over the same directory: memory is cold,
	// the value comes back from disk.
	mc2, err := NewMirroredCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer mc2.Close()

	var got string
	if err := mc2.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "warm" {
		t.Fatalf("got %q", got)
	}
}

func TestMirroredReadThroughKeepsExpiry(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	mc, err := NewMirroredCache(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := mc.Set(ctx, "k", "short-lived", 60*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = mc.Close()

	// Cold start: the read-through warms memory, but the warmed entry must
	// carry the original expiry rather than a fresh default.
	mc2, err := NewMirroredCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer mc2.Close()

	var got string
	if err := mc2.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	time.Sleep(80 * time.Millisecond)

	if err := mc2.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after original ttl, got %v", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"quote:^GSPC":  "quote__GSPC",
		"quote:GC=F":   "quote_GC_F",
		"plain-key_1":  "plain-key_1",
		"DX-Y.NYB/now": "DX-Y.NYB_now",
	}
	for in, want := range cases {
		if got := SanitizeKey(in); got != want {
			t.Fatalf("SanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
