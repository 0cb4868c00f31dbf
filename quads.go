// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/mem"
	"honnef.co/go/massif/shapes"
)

// quadBatch is one draw unit of the quad pipeline: all quads of one shared
// transform, concatenated into a single vertex buffer.
type quadBatch struct {
	transform shapes.TransformID
	buf       *wgpu.Buffer
	bufSize   uint64
	quadCount uint32
}

// quadBatcher groups quad shapes by the identity of their transform handle.
// Batches are rebuilt from scratch every prepare; they are never mutated
// incrementally.
type quadBatcher struct {
	batches []quadBatch
}

const vertexBufferUsage = wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst

// prepare rebuilds the batch list and returns the largest quad count across
// the new batches. Shapes land in the same batch iff they reference the
// same transform handle; value-equal matrices under distinct handles stay
// in distinct batches. Empty groups are skipped.
func (qb *quadBatcher) prepare(dev Device, queue Queue, pool *bufferPool, arena *mem.Arena, input []*shapes.QuadsShape) uint32 {
	qb.recycle(pool)

	// Group by handle identity, keeping first-seen order.
	groups := map[shapes.TransformID][]*shapes.QuadsShape{}
	order := mem.NewSlice[[]shapes.TransformID](arena, 0, len(input))
	for _, shape := range input {
		if _, ok := groups[shape.Transform]; !ok {
			order = append(order, shape.Transform)
		}
		groups[shape.Transform] = append(groups[shape.Transform], shape)
	}

	var maxQuads uint32
	for _, id := range order {
		count := 0
		for _, shape := range groups[id] {
			count += len(shape.Quads)
		}
		if count == 0 {
			continue
		}
		vertices := mem.NewSlice[[]ColorVertex](arena, 0, count*4)
		for _, shape := range groups[id] {
			for _, quad := range shape.Quads {
				col := quad.Color.Premul()
				for _, corner := range quad.Corners {
					vertices = append(vertices, ColorVertex{
						Position: [3]float32{float32(corner.X), float32(corner.Y), 0},
						Color:    col,
					})
				}
			}
		}

		data := vertexBytes(vertices)
		buf, rounded := pool.get(dev, uint64(len(data)), "quad vertices", vertexBufferUsage)
		queue.WriteBuffer(buf, 0, data)
		qb.batches = append(qb.batches, quadBatch{
			transform: id,
			buf:       buf,
			bufSize:   rounded,
			quadCount: uint32(count),
		})
		maxQuads = max(maxQuads, uint32(count))
	}
	return maxQuads
}

// recycle returns the previous frame's vertex buffers to the pool.
func (qb *quadBatcher) recycle(pool *bufferPool) {
	for _, b := range qb.batches {
		pool.put(b.buf, b.bufSize, vertexBufferUsage)
	}
	qb.batches = qb.batches[:0]
}

// draw issues one indexed draw per batch. slot addresses the batch's
// combined matrix in the camera uniform array.
func (qb *quadBatcher) draw(pass *wgpu.RenderPassEncoder, camera *cameraBuffer, slot *int) {
	for _, b := range qb.batches {
		pass.SetBindGroup(0, camera.bindGroup, []uint32{camera.offset(*slot)})
		*slot++
		pass.SetVertexBuffer(0, b.buf, 0, uint64(b.quadCount)*4*colorVertexStride)
		pass.DrawIndexed(b.quadCount*6, 1, 0, 0, 0)
	}
}
