// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/glyph"
	"honnef.co/go/massif/mem"
	"honnef.co/go/massif/shapes"
)

// AtlasSource is the atlas collaborator as the batcher sees it: key-based
// lookup plus the current texture state. The atlas's packing and eviction
// policy stay behind this interface. Generation changes whenever the
// texture is reallocated, invalidating bind groups built against the old
// texture.
type AtlasSource interface {
	LookupOrInsert(key glyph.CacheKey, p glyph.Param) (glyph.AtlasRect, glyph.Placement, bool)
	View() *wgpu.TextureView
	Size() uint32
	Generation() uint64
	Maintain()
	Release()
}

var _ AtlasSource = (*glyph.Atlas)(nil)

// glyphBatch is one draw unit of a glyph pipeline: every glyph instance of
// one shared transform, plus the bind group referencing the atlas texture
// the batch was built against.
type glyphBatch struct {
	transform shapes.TransformID
	buf       *wgpu.Buffer
	bufSize   uint64
	quadCount uint32

	bindGroup *wgpu.BindGroup
	// generation is the atlas generation bindGroup was built at. A batch
	// must not be drawn with a bind group older than the atlas's current
	// generation; the draw would read the discarded texture.
	generation uint64
}

// glyphBatcher batches the glyph runs of one pipeline kind (planar or SDF)
// against one atlas.
type glyphBatcher struct {
	atlas AtlasSource

	batches []glyphBatch

	// sizeBuf holds the atlas size for UV normalization in the shader.
	sizeBuf     *wgpu.Buffer
	sizeWritten uint32
	sampler     *wgpu.Sampler
	layout      *wgpu.BindGroupLayout
}

// glyphRunInput is a glyph run routed to this batcher, with its
// rasterization parameters already selected.
type glyphRunInput struct {
	shape *shapes.GlyphRunShape
	param glyph.Param
}

func newGlyphBatcher(atlas AtlasSource, layout *wgpu.BindGroupLayout, sampler *wgpu.Sampler) glyphBatcher {
	return glyphBatcher{
		atlas:   atlas,
		sampler: sampler,
		layout:  layout,
	}
}

// prepare rebuilds the batch list from runs and returns the largest quad
// count across the new batches. Vertex data is built for all batches before
// any bind group is created: inserting glyphs can grow the atlas, and bind
// groups must reference the texture that is current once all insertions are
// done.
func (gb *glyphBatcher) prepare(dev Device, queue Queue, pool *bufferPool, arena *mem.Arena, runs []glyphRunInput) uint32 {
	gb.recycle(pool)

	type pending struct {
		transform shapes.TransformID
		vertices  []GlyphVertex
	}
	groups := map[shapes.TransformID]int{}
	var pendings []pending

	for _, run := range runs {
		idx, ok := groups[run.shape.Transform]
		if !ok {
			idx = len(pendings)
			groups[run.shape.Transform] = idx
			pendings = append(pendings, pending{transform: run.shape.Transform})
		}
		p := &pendings[idx]

		metrics := run.shape.Run.Metrics
		col := run.shape.Run.Color.Premul()
		tx := run.shape.Translation.X
		ty := run.shape.Translation.Y
		for _, g := range run.shape.Run.Glyphs {
			rect, place, ok := gb.atlas.LookupOrInsert(g.Key, run.param)
			if !ok {
				continue
			}
			dest := g.Place(metrics.MaxAscent, place)
			x0 := float32(dest.X0 + tx)
			y0 := float32(dest.Y0 + ty)
			x1 := float32(dest.X1 + tx)
			y1 := float32(dest.Y1 + ty)
			ax0 := float32(rect.X)
			ay0 := float32(rect.Y)
			ax1 := float32(rect.X + rect.Width)
			ay1 := float32(rect.Y + rect.Height)
			p.vertices = mem.Append(arena, p.vertices,
				GlyphVertex{Position: [3]float32{x0, y0, 0}, AtlasPos: [2]float32{ax0, ay0}, Color: col},
				GlyphVertex{Position: [3]float32{x1, y0, 0}, AtlasPos: [2]float32{ax1, ay0}, Color: col},
				GlyphVertex{Position: [3]float32{x1, y1, 0}, AtlasPos: [2]float32{ax1, ay1}, Color: col},
				GlyphVertex{Position: [3]float32{x0, y1, 0}, AtlasPos: [2]float32{ax0, ay1}, Color: col},
			)
		}
	}

	gb.writeSize(dev, queue)

	var maxQuads uint32
	for _, p := range pendings {
		if len(p.vertices) == 0 {
			continue
		}
		data := vertexBytes(p.vertices)
		buf, rounded := pool.get(dev, uint64(len(data)), "glyph vertices", vertexBufferUsage)
		queue.WriteBuffer(buf, 0, data)
		count := uint32(len(p.vertices) / 4)
		gb.batches = append(gb.batches, glyphBatch{
			transform:  p.transform,
			buf:        buf,
			bufSize:    rounded,
			quadCount:  count,
			bindGroup:  gb.buildBindGroup(dev),
			generation: gb.atlas.Generation(),
		})
		maxQuads = max(maxQuads, count)
	}
	return maxQuads
}

func (gb *glyphBatcher) recycle(pool *bufferPool) {
	for _, b := range gb.batches {
		pool.put(b.buf, b.bufSize, vertexBufferUsage)
		if b.bindGroup != nil {
			b.bindGroup.Release()
		}
	}
	gb.batches = gb.batches[:0]
}

// writeSize keeps the atlas-size uniform in sync with the atlas texture.
func (gb *glyphBatcher) writeSize(dev Device, queue Queue) {
	if gb.sizeBuf == nil {
		gb.sizeBuf = dev.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "atlas size",
			Size:  16,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
	}
	size := gb.atlas.Size()
	if size == gb.sizeWritten {
		return
	}
	queue.WriteBuffer(gb.sizeBuf, 0, vertexBytes([]float32{float32(size), float32(size), 0, 0}))
	gb.sizeWritten = size
}

func (gb *glyphBatcher) buildBindGroup(dev Device) *wgpu.BindGroup {
	return dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "glyph atlas",
		Layout: gb.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: gb.atlas.View(),
			},
			{
				Binding: 1,
				Buffer:  gb.sizeBuf,
				Offset:  0,
				Size:    16,
			},
			{
				Binding: 2,
				Sampler: gb.sampler,
			},
		},
	})
}

// revalidate rebuilds any bind group whose atlas generation is stale. Must
// run before the render pass opens; a batch drawn with a stale bind group
// would sample the discarded texture.
func (gb *glyphBatcher) revalidate(dev Device, queue Queue) {
	gen := gb.atlas.Generation()
	for i := range gb.batches {
		b := &gb.batches[i]
		if b.generation == gen {
			continue
		}
		gb.writeSize(dev, queue)
		if b.bindGroup != nil {
			b.bindGroup.Release()
		}
		b.bindGroup = gb.buildBindGroup(dev)
		b.generation = gen
	}
}

func (gb *glyphBatcher) draw(pass *wgpu.RenderPassEncoder, camera *cameraBuffer, slot *int) {
	for _, b := range gb.batches {
		pass.SetBindGroup(0, camera.bindGroup, []uint32{camera.offset(*slot)})
		*slot++
		pass.SetBindGroup(1, b.bindGroup, nil)
		pass.SetVertexBuffer(0, b.buf, 0, uint64(b.quadCount)*4*glyphVertexStride)
		pass.DrawIndexed(b.quadCount*6, 1, 0, 0, 0)
	}
}

func (gb *glyphBatcher) release(pool *bufferPool) {
	gb.recycle(pool)
	if gb.sizeBuf != nil {
		gb.sizeBuf.Release()
		gb.sizeBuf = nil
	}
}
