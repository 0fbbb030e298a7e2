// Copyright 2025 Shelfwise Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/go-crypt/x/blake2b"

	"github.com/shelfwise/shelfwise/index"
)

const (
	// DefaultCacheCapacity bounds the number of cached result lists.
	DefaultCacheCapacity = 1000

	// cacheMaxAge is how long a cached result list stays servable. An entry
	// past this age is never returned and is dropped on the next insert.
	cacheMaxAge = 60 * time.Minute
)

// ResultCache memoizes (query vector, limit) search results for a bounded
// time window and bounded size. It carries its own lock because the vector
// store invalidates it wholesale on every mutation, so the cache never needs
// to coordinate with index internals.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*cacheEntry
	now      func() time.Time // swappable for tests
}

type cacheEntry struct {
	hits      []index.Hit
	createdAt time.Time
}

// NewResultCache creates a cache holding at most capacity result lists.
// A non-positive capacity falls back to DefaultCacheCapacity.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string]*cacheEntry),
		now:      time.Now,
	}
}

// cacheKey derives a deterministic key from every float component of the
// query vector plus the result limit, order-sensitive.
func cacheKey(query []float32, topK int) string {
	h, _ := blake2b.New(16, nil)
	var word [8]byte
	binary.LittleEndian.PutUint64(word[:], uint64(topK))
	h.Write(word[:])
	for _, f := range query {
		binary.LittleEndian.PutUint32(word[:4], math.Float32bits(f))
		h.Write(word[:4])
	}
	return string(h.Sum(nil))
}

// Get returns the cached result list for the key, if present and younger
// than the eviction age.
func (c *ResultCache) Get(key string) ([]index.Hit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) > cacheMaxAge {
		delete(c.entries, key)
		return nil, false
	}
	return slices.Clone(entry.hits), true
}

// Put inserts a result list. Entries past the eviction age are dropped
// first; if the cache is still full, the single entry with the oldest
// timestamp makes room.
func (c *ResultCache) Put(key string, hits []index.Hit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictAgedLocked(now)
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = &cacheEntry{hits: slices.Clone(hits), createdAt: now}
}

// SetCapacity changes the size bound. Shrinking below the current entry
// count evicts oldest entries immediately.
func (c *ResultCache) SetCapacity(capacity int) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = capacity
	for len(c.entries) > c.capacity {
		c.evictOldestLocked()
	}
}

// Clear drops every entry unconditionally.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) evictAgedLocked(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.createdAt) > cacheMaxAge {
			delete(c.entries, key)
		}
	}
}

func (c *ResultCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.createdAt.Before(oldestAt) {
			oldestKey, oldestAt = key, entry.createdAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
