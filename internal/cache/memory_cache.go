package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCache is a bounded in-process cache; the least recently used entry
// is evicted once MaxEntries is reached.
type MemoryCache struct {
	entries *lru.Cache[string, []byte]
}

func NewMemoryCache(maxEntries int) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	entries, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryCache{entries: entries}, nil
}

func (mc *MemoryCache) Load(_ context.Context, key string) ([]byte, bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}
	v, ok := mc.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, v...), true, nil
}

func (mc *MemoryCache) Save(_ context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	mc.entries.Add(key, append([]byte{}, value...))
	return nil
}

func (mc *MemoryCache) Len() int {
	return mc.entries.Len()
}
