// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/mem"
	"honnef.co/go/massif/mmath"
)

// quadIndexPattern indexes one quad laid out as 4 vertices: two triangles,
// both counterclockwise.
var quadIndexPattern = [6]uint32{0, 1, 2, 0, 2, 3}

// QuadIndexBuffer is the index buffer shared by every quad-based batch in a
// frame. Quad i's indices are the fixed pattern offset by 4*i, a pure
// function of i, so a larger buffer is a valid superset for any smaller
// draw range.
//
// Capacity grows by doubling and never shrinks. Each regeneration discards
// the old buffer and bumps the version, signalling dependents that the
// buffer object changed.
type QuadIndexBuffer struct {
	buf     *wgpu.Buffer
	quads   uint32
	version uint64
}

// EnsureQuads guarantees the buffer can index at least n quads. A no-op
// when the current capacity covers n.
func (b *QuadIndexBuffer) EnsureQuads(dev Device, queue Queue, arena *mem.Arena, n uint32) {
	if n <= b.quads {
		return
	}
	newCap := max(b.quads*2, mmath.NextPow2(n))

	if b.buf != nil {
		b.buf.Release()
	}
	b.buf = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "quad index buffer",
		Size:  uint64(newCap) * 6 * 4,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	queue.WriteBuffer(b.buf, 0, vertexBytes(quadIndices(arena, newCap)))
	b.quads = newCap
	b.version++
}

// Buffer returns the current buffer object. Valid until the next growing
// EnsureQuads call.
func (b *QuadIndexBuffer) Buffer() *wgpu.Buffer {
	return b.buf
}

// Quads returns the current capacity in quads.
func (b *QuadIndexBuffer) Quads() uint32 {
	return b.quads
}

// Size returns the buffer size in bytes.
func (b *QuadIndexBuffer) Size() uint64 {
	return uint64(b.quads) * 6 * 4
}

// Version increases every time the buffer object is regenerated.
func (b *QuadIndexBuffer) Version() uint64 {
	return b.version
}

func (b *QuadIndexBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
		b.quads = 0
	}
}

func quadIndices(arena *mem.Arena, quads uint32) []uint32 {
	out := mem.NewSlice[[]uint32](arena, 0, int(quads)*6)
	for i := uint32(0); i < quads; i++ {
		base := i * 4
		for _, p := range quadIndexPattern {
			out = append(out, base+p)
		}
	}
	return out
}
