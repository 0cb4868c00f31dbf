// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"honnef.co/go/curve"
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/mem"
	"honnef.co/go/massif/shapes"
)

// textureBatch is one draw unit of the texture pipeline: all rectangles of
// one shared transform sampling the same texture view.
type textureBatch struct {
	transform shapes.TransformID
	view      *wgpu.TextureView
	buf       *wgpu.Buffer
	bufSize   uint64
	quadCount uint32
	bindGroup *wgpu.BindGroup
}

// textureBatcher batches externally-supplied textures, each drawn as a
// rectangle sampling the full texture.
type textureBatcher struct {
	batches []textureBatch
	sampler *wgpu.Sampler
	layout  *wgpu.BindGroupLayout
}

// textureInput is one textured rectangle: Rect in the transform's
// coordinate space, UVs spanning the whole view.
type textureInput struct {
	transform shapes.TransformID
	rect      curve.Rect
	view      *wgpu.TextureView
}

func newTextureBatcher(layout *wgpu.BindGroupLayout, sampler *wgpu.Sampler) textureBatcher {
	return textureBatcher{
		sampler: sampler,
		layout:  layout,
	}
}

type textureBatchKey struct {
	transform shapes.TransformID
	view      *wgpu.TextureView
}

// prepare rebuilds the batch list and returns the largest quad count across
// the new batches. Inputs land in the same batch iff they share both the
// transform handle and the texture view.
func (tb *textureBatcher) prepare(dev Device, queue Queue, pool *bufferPool, arena *mem.Arena, input []textureInput) uint32 {
	tb.recycle(pool)

	groups := map[textureBatchKey][]curve.Rect{}
	order := mem.NewSlice[[]textureBatchKey](arena, 0, len(input))
	for _, in := range input {
		key := textureBatchKey{transform: in.transform, view: in.view}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], in.rect)
	}

	var maxQuads uint32
	for _, key := range order {
		rects := groups[key]
		vertices := mem.NewSlice[[]TextureVertex](arena, 0, len(rects)*4)
		for _, r := range rects {
			x0 := float32(r.X0)
			y0 := float32(r.Y0)
			x1 := float32(r.X1)
			y1 := float32(r.Y1)
			vertices = append(vertices,
				TextureVertex{Position: [3]float32{x0, y0, 0}, UV: [2]float32{0, 0}},
				TextureVertex{Position: [3]float32{x1, y0, 0}, UV: [2]float32{1, 0}},
				TextureVertex{Position: [3]float32{x1, y1, 0}, UV: [2]float32{1, 1}},
				TextureVertex{Position: [3]float32{x0, y1, 0}, UV: [2]float32{0, 1}},
			)
		}

		data := vertexBytes(vertices)
		buf, rounded := pool.get(dev, uint64(len(data)), "texture vertices", vertexBufferUsage)
		queue.WriteBuffer(buf, 0, data)
		tb.batches = append(tb.batches, textureBatch{
			transform: key.transform,
			view:      key.view,
			buf:       buf,
			bufSize:   rounded,
			quadCount: uint32(len(rects)),
			bindGroup: dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  "texture batch",
				Layout: tb.layout,
				Entries: []wgpu.BindGroupEntry{
					{
						Binding:     0,
						TextureView: key.view,
					},
					{
						Binding: 1,
						Sampler: tb.sampler,
					},
				},
			}),
		})
		maxQuads = max(maxQuads, uint32(len(rects)))
	}
	return maxQuads
}

func (tb *textureBatcher) recycle(pool *bufferPool) {
	for _, b := range tb.batches {
		pool.put(b.buf, b.bufSize, vertexBufferUsage)
		if b.bindGroup != nil {
			b.bindGroup.Release()
		}
	}
	tb.batches = tb.batches[:0]
}

func (tb *textureBatcher) draw(pass *wgpu.RenderPassEncoder, camera *cameraBuffer, slot *int) {
	for _, b := range tb.batches {
		pass.SetBindGroup(0, camera.bindGroup, []uint32{camera.offset(*slot)})
		*slot++
		pass.SetBindGroup(1, b.bindGroup, nil)
		pass.SetVertexBuffer(0, b.buf, 0, uint64(b.quadCount)*4*textureVertexStride)
		pass.DrawIndexed(b.quadCount*6, 1, 0, 0, 0)
	}
}
