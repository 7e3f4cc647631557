package cache

import (
	"context"
	"time"
)

// MirroredCache implements two-level cache (L1: Memory, L2: file mirror).
// Reads fall through to disk on a cold start and repopulate memory.
type MirroredCache struct {
	memCache  *MemoryCache
	fileCache *FileCache
}

// NewMirroredCache creates a mirrored cache over the given directory.
func NewMirroredCache(dir string, opts ...MemoryOption) (*MirroredCache, error) {
	fc, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return &MirroredCache{
		memCache:  NewMemoryCache(opts...),
		fileCache: fc,
	}, nil
}

func (mc *MirroredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// Write-through: disk first, then memory
	if err := mc.fileCache.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = mc.memCache.Set(ctx, key, value, expiration)
	return nil
}

func (mc *MirroredCache) Get(ctx context.Context, key string, dest interface{}) error {
	// L1: Try memory first
	if err := mc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	// L2: Try the file mirror
	expireAt, err := mc.fileCache.GetWithExpiry(ctx, key, dest)
	if err != nil {
		return err
	}

	// Repopulate memory with the remaining lifetime so the mirror cannot
	// outlive the disk entry.
	if remaining := time.Until(expireAt); remaining > 0 {
		_ = mc.memCache.Set(ctx, key, dest, remaining)
	}
	return nil
}

func (mc *MirroredCache) Delete(ctx context.Context, keys ...string) error {
	_ = mc.memCache.Delete(ctx, keys...)
	return mc.fileCache.Delete(ctx, keys...)
}

func (mc *MirroredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	_ = mc.memCache.DeleteByPattern(ctx, pattern)
	return mc.fileCache.DeleteByPattern(ctx, pattern)
}

func (mc *MirroredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, _ := mc.memCache.Exists(ctx, keys...); ok {
		return true, nil
	}
	return mc.fileCache.Exists(ctx, keys...)
}

// Close closes both cache layers.
func (mc *MirroredCache) Close() error {
	_ = mc.fileCache.Close()
	return mc.memCache.Close()
}
