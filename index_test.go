// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"honnef.co/go/massif/mem"
)

func TestQuadIndicesPattern(t *testing.T) {
	arena := mem.NewArena()
	idx := quadIndices(arena, 3)
	assert.Len(t, idx, 18)
	for i := uint32(0); i < 3; i++ {
		base := i * 4
		got := idx[i*6 : i*6+6]
		want := []uint32{base, base + 1, base + 2, base, base + 2, base + 3}
		assert.Equal(t, want, got)
	}
}

func TestQuadIndexBufferGrowth(t *testing.T) {
	dev := &fakeDevice{}
	queue := &fakeQueue{}
	arena := mem.NewArena()
	var b QuadIndexBuffer

	b.EnsureQuads(dev, queue, arena, 10)
	assert.Equal(t, uint32(16), b.Quads())
	assert.Equal(t, uint64(1), b.Version())
	assert.Equal(t, 1, dev.buffersCreated)
	assert.Equal(t, uint64(16*6*4), b.Size())

	// Capacity already covers these; no reallocation, no version bump.
	b.EnsureQuads(dev, queue, arena, 10)
	b.EnsureQuads(dev, queue, arena, 16)
	b.EnsureQuads(dev, queue, arena, 1)
	assert.Equal(t, uint32(16), b.Quads())
	assert.Equal(t, uint64(1), b.Version())
	assert.Equal(t, 1, dev.buffersCreated)

	// One past capacity doubles.
	b.EnsureQuads(dev, queue, arena, 17)
	assert.Equal(t, uint32(32), b.Quads())
	assert.Equal(t, uint64(2), b.Version())
	assert.Equal(t, 2, dev.buffersCreated)

	// A jump far past double lands on the next power of two.
	b.EnsureQuads(dev, queue, arena, 1000)
	assert.Equal(t, uint32(1024), b.Quads())
	assert.Equal(t, uint64(3), b.Version())
}

func TestQuadIndexBufferUploadsFullCapacity(t *testing.T) {
	dev := &fakeDevice{}
	queue := &fakeQueue{}
	arena := mem.NewArena()
	var b QuadIndexBuffer

	b.EnsureQuads(dev, queue, arena, 8)
	if assert.Len(t, queue.writes, 1) {
		assert.Equal(t, 8*6*4, queue.writes[0].size)
	}
}
