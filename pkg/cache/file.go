package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// fileEnvelope wraps a cached value with its expiry on disk.
type fileEnvelope struct {
	ExpireAt time.Time       `json:"expire_at"`
	Data     json.RawMessage `json:"data"`
}

// FileCache implements Service on a flat directory of JSON files. It survives
// restarts, which keeps once-per-day feeds warm in development.
type FileCache struct {
	dir   string
	mutex sync.RWMutex
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, SanitizeKey(key)+".json")
}

func (fc *FileCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	expireAt := time.Now().Add(expiration)
	if expiration <= 0 {
		expireAt = time.Now().Add(7 * 24 * time.Hour)
	}

	payload, err := json.Marshal(fileEnvelope{ExpireAt: expireAt, Data: data})
	if err != nil {
		return err
	}

	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	return os.WriteFile(fc.path(key), payload, 0o644)
}

func (fc *FileCache) Get(ctx context.Context, key string, dest interface{}) error {
	_, err := fc.GetWithExpiry(ctx, key, dest)
	return err
}

// GetWithExpiry behaves like Get and additionally reports when the entry
// expires, so mirror layers can repopulate with the remaining lifetime.
func (fc *FileCache) GetWithExpiry(_ context.Context, key string, dest interface{}) (time.Time, error) {
	fc.mutex.RLock()
	payload, err := os.ReadFile(fc.path(key))
	fc.mutex.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, ErrCacheMiss
		}
		return time.Time{}, err
	}

	var env fileEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		// Corrupt entry, treat as a miss and drop it
		fc.mutex.Lock()
		_ = os.Remove(fc.path(key))
		fc.mutex.Unlock()
		return time.Time{}, ErrCacheMiss
	}

	if time.Now().After(env.ExpireAt) {
		fc.mutex.Lock()
		_ = os.Remove(fc.path(key))
		fc.mutex.Unlock()
		return time.Time{}, ErrCacheMiss
	}

	return env.ExpireAt, json.Unmarshal(env.Data, dest)
}

func (fc *FileCache) Delete(_ context.Context, keys ...string) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	for _, key := range keys {
		if err := os.Remove(fc.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (fc *FileCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := SanitizeKey(strings.TrimSuffix(pattern, "*"))

	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			if err := os.Remove(filepath.Join(fc.dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (fc *FileCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	for _, key := range keys {
		var raw json.RawMessage
		if err := fc.Get(ctx, key, &raw); err == nil {
			return true, nil
		}
	}
	return false, nil
}

func (fc *FileCache) Close() error {
	return nil
}
