// Package cache stores computed base valuations keyed by a structural hash of
// their inputs, so a valuation is only rerun when projections or settings change.
package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// ValueCache stores base valuations by input hash
type ValueCache interface {
	// Get returns the cached values and whether the key was present
	Get(ctx context.Context, key string) ([]models.PlayerValue, bool, error)
	Set(ctx context.Context, key string, values []models.PlayerValue) error
}

// DefaultMemoryEntries is how many valuations a MemoryCache keeps
const DefaultMemoryEntries = 8

// MemoryCache is a small in-process ValueCache that evicts the oldest entry
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	order   []string
	entries map[string][]models.PlayerValue
}

// NewMemoryCache creates a cache holding at most size valuations
func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	return &MemoryCache{
		max:     size,
		entries: make(map[string][]models.PlayerValue, size),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]models.PlayerValue, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	values, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return cloneValues(values), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, values []models.PlayerValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = cloneValues(values)

	for len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return nil
}

// Len returns the number of cached valuations
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cloneValues copies values including each player's positions slice
func cloneValues(values []models.PlayerValue) []models.PlayerValue {
	out := make([]models.PlayerValue, len(values))
	copy(out, values)
	for i := range out {
		out[i].Positions = slices.Clone(out[i].Positions)
	}
	return out
}
