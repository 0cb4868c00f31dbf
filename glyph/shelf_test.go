// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShelfAlloc(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	x, y, ok := p.alloc(16, 16)
	require.True(t, ok)
	assert.Equal(t, uint32(0), x)
	assert.Equal(t, uint32(0), y)

	x, y, ok = p.alloc(16, 16)
	require.True(t, ok)
	assert.Equal(t, uint32(16), x)
	assert.Equal(t, uint32(0), y)

	// Too wide for the remaining shelf space, opens a new shelf.
	x, y, ok = p.alloc(48, 16)
	require.True(t, ok)
	assert.Equal(t, uint32(0), x)
	assert.Equal(t, uint32(16), y)
}

func TestShelfFull(t *testing.T) {
	p := newShelfPacker(32, 32, 0)
	_, _, ok := p.alloc(32, 32)
	require.True(t, ok)
	_, _, ok = p.alloc(1, 1)
	assert.False(t, ok)

	_, _, ok = p.alloc(64, 1)
	assert.False(t, ok, "wider than the atlas")
}

func TestShelfGrowKeepsPositions(t *testing.T) {
	p := newShelfPacker(32, 32, 0)
	x0, y0, ok := p.alloc(32, 16)
	require.True(t, ok)
	_, _, ok = p.alloc(32, 32)
	require.False(t, ok)

	p.grow(64, 64)

	// The old shelf keeps its origin; the new allocation lands next to or
	// below it, never on top of it.
	x1, y1, ok := p.alloc(32, 32)
	require.True(t, ok)
	assert.Equal(t, uint32(0), x0)
	assert.Equal(t, uint32(0), y0)
	assert.False(t, x1 < 32 && y1 < 16, "new allocation overlaps old one at (%d, %d)", x1, y1)
}

func TestShelfPadding(t *testing.T) {
	p := newShelfPacker(64, 64, 2)
	_, _, ok := p.alloc(16, 16)
	require.True(t, ok)
	x, _, ok := p.alloc(16, 16)
	require.True(t, ok)
	assert.Equal(t, uint32(18), x)
}
