// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

// cacheID identifies a rasterization: the glyph key plus the parameters it
// was rasterized with.
type cacheID struct {
	key   CacheKey
	param Param
}

type cacheEntry struct {
	img   *Image
	ok    bool
	epoch uint64
}

const cacheRetainedCount = 1024
const cacheRetainedEpochs = 2

// Cache memoizes rasterized glyph images, including negative results for
// glyphs without an image. Entries unused for a few frames are evicted once
// the cache exceeds its retained size.
type Cache struct {
	epoch   uint64
	rast    Rasterizer
	entries map[cacheID]*cacheEntry
}

func NewCache(rast Rasterizer) *Cache {
	return &Cache{
		rast:    rast,
		entries: make(map[cacheID]*cacheEntry),
	}
}

// Maintain advances the cache's epoch and evicts stale entries. Call once
// per frame.
func (c *Cache) Maintain() {
	c.epoch++
	if len(c.entries) <= cacheRetainedCount {
		return
	}
	for id, e := range c.entries {
		if e.epoch+cacheRetainedEpochs < c.epoch {
			delete(c.entries, id)
		}
	}
}

// Get returns the rasterized image for key, rasterizing on a miss. ok is
// false if the glyph has no image.
func (c *Cache) Get(key CacheKey, p Param) (*Image, bool) {
	id := cacheID{key, p}
	if e, ok := c.entries[id]; ok {
		e.epoch = c.epoch
		return e.img, e.ok
	}
	img, ok := c.rast.Rasterize(key, p)
	c.entries[id] = &cacheEntry{img: img, ok: ok, epoch: c.epoch}
	return img, ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
