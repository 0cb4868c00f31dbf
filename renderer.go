// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"errors"
	"fmt"
	"log/slog"

	"cogentcore.org/core/math32"
	"honnef.co/go/curve"
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/gfx"
	"honnef.co/go/massif/glyph"
	"honnef.co/go/massif/mem"
	"honnef.co/go/massif/shapes"
)

// Drawable is a shape the renderer can batch and draw. The concrete types
// are QuadsDrawable, GlyphRunDrawable, and TextureDrawable.
type Drawable interface {
	isDrawable()
}

// QuadsDrawable draws a group of solid-color quads under one transform.
type QuadsDrawable struct {
	Shape *shapes.QuadsShape
}

// GlyphRunDrawable draws a shaped glyph run. Class selects how the run's
// glyphs are rasterized and which glyph pipeline draws them.
type GlyphRunDrawable struct {
	Shape *shapes.GlyphRunShape
	Class glyph.Class
}

// TextureDrawable draws an externally-supplied texture into a rectangle.
type TextureDrawable struct {
	Transform shapes.TransformID
	Rect      curve.Rect
	View      *wgpu.TextureView
}

func (QuadsDrawable) isDrawable()    {}
func (GlyphRunDrawable) isDrawable() {}
func (TextureDrawable) isDrawable()  {}

type RendererOptions struct {
	// InitialQuads sizes the shared index buffer for this many quads up
	// front. Defaults to 1024.
	InitialQuads uint32
	// AtlasSize is the initial edge length of the glyph atlas textures.
	AtlasSize uint32
	ClearColor gfx.Color
	Logger     *slog.Logger
}

// Renderer batches drawables into per-pipeline draw calls and renders them
// to a target, one frame per Prepare/RenderAndPresent pair.
type Renderer struct {
	dev    Device
	queue  Queue
	target Target
	log    *slog.Logger
	clear  wgpu.Color

	arena      *mem.Arena
	transforms shapes.TransformArena

	pipelines *pipelines
	pool      bufferPool
	index     QuadIndexBuffer
	camera    cameraBuffer

	planarAtlas AtlasSource
	sdfAtlas    AtlasSource

	planarGlyphs glyphBatcher
	sdfGlyphs    glyphBatcher
	quads        quadBatcher
	textures     textureBatcher
}

func NewRenderer(dev *wgpu.Device, queue *wgpu.Queue, target Target, rast glyph.Rasterizer, opts RendererOptions) *Renderer {
	if opts.InitialQuads == 0 {
		opts.InitialQuads = 1024
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := newPipelines(dev, target.Format())
	clear := opts.ClearColor.Premul()
	r := &Renderer{
		dev:    dev,
		queue:  queue,
		target: target,
		log:    opts.Logger,
		clear: wgpu.Color{
			R: float64(clear[0]),
			G: float64(clear[1]),
			B: float64(clear[2]),
			A: float64(clear[3]),
		},

		arena: mem.NewArena(),

		pipelines: p,
		camera:    newCameraBuffer(p.cameraLayout),

		planarAtlas: glyph.NewAtlas(dev, queue, rast, glyph.AtlasOptions{
			Label:       "planar glyph atlas",
			InitialSize: opts.AtlasSize,
			Logger:      opts.Logger,
		}),
		sdfAtlas: glyph.NewAtlas(dev, queue, rast, glyph.AtlasOptions{
			Label:       "SDF glyph atlas",
			SDF:         true,
			InitialSize: opts.AtlasSize,
			Logger:      opts.Logger,
		}),

		quads:    quadBatcher{},
		textures: newTextureBatcher(p.textureLayout, p.sampler),
	}
	r.planarGlyphs = newGlyphBatcher(r.planarAtlas, p.glyphLayout, p.sampler)
	r.sdfGlyphs = newGlyphBatcher(r.sdfAtlas, p.glyphLayout, p.sampler)
	r.index.EnsureQuads(dev, queue, r.arena, opts.InitialQuads)
	return r
}

// Transforms returns the arena drawables allocate their transform handles
// from. Shapes batch together iff they reference the same handle; callers
// control batching by sharing or not sharing handles.
func (r *Renderer) Transforms() *shapes.TransformArena {
	return &r.transforms
}

// Prepare rebuilds all batches from drawables. Drawables are bucketed by
// pipeline kind, grouped by transform handle within each kind, and their
// vertex data is uploaded. Prepare must be followed by RenderAndPresent to
// draw the batches.
func (r *Renderer) Prepare(drawables []Drawable) {
	r.arena.Reset()
	r.planarAtlas.Maintain()
	r.sdfAtlas.Maintain()

	var (
		planarRuns []glyphRunInput
		sdfRuns    []glyphRunInput
		quadShapes []*shapes.QuadsShape
		texInputs  []textureInput
	)
	for _, d := range drawables {
		switch d := d.(type) {
		case QuadsDrawable:
			quadShapes = mem.Append(r.arena, quadShapes, d.Shape)
		case GlyphRunDrawable:
			param := glyph.Select(d.Class)
			if w := d.Shape.Run.Weight; w != 0 {
				param = param.WithWeight(w)
			}
			in := glyphRunInput{shape: d.Shape, param: param}
			if glyphPipelineFor(param) == PipelineSdfGlyph {
				sdfRuns = mem.Append(r.arena, sdfRuns, in)
			} else {
				planarRuns = mem.Append(r.arena, planarRuns, in)
			}
		case TextureDrawable:
			texInputs = mem.Append(r.arena, texInputs, textureInput{
				transform: d.Transform,
				rect:      d.Rect,
				view:      d.View,
			})
		}
	}

	maxQuads := r.planarGlyphs.prepare(r.dev, r.queue, &r.pool, r.arena, planarRuns)
	maxQuads = max(maxQuads, r.sdfGlyphs.prepare(r.dev, r.queue, &r.pool, r.arena, sdfRuns))
	maxQuads = max(maxQuads, r.quads.prepare(r.dev, r.queue, &r.pool, r.arena, quadShapes))
	maxQuads = max(maxQuads, r.textures.prepare(r.dev, r.queue, &r.pool, r.arena, texInputs))
	r.index.EnsureQuads(r.dev, r.queue, r.arena, maxQuads)
}

// batchTransforms walks the frame's batches in draw order and yields each
// batch's transform handle. The order must match the order draw assigns
// camera slots in.
func (r *Renderer) batchTransforms(yield func(shapes.TransformID)) {
	for _, b := range r.planarGlyphs.batches {
		yield(b.transform)
	}
	for _, b := range r.sdfGlyphs.batches {
		yield(b.transform)
	}
	for _, b := range r.quads.batches {
		yield(b.transform)
	}
	for _, b := range r.textures.batches {
		yield(b.transform)
	}
}

func (r *Renderer) batchCount() int {
	return len(r.planarGlyphs.batches) +
		len(r.sdfGlyphs.batches) +
		len(r.quads.batches) +
		len(r.textures.batches)
}

// RenderAndPresent draws the prepared batches and presents the frame.
// viewProjection is combined with each batch's model transform; batches
// with NoTransform draw with viewProjection alone.
//
// A lost surface is reconfigured and reported as ErrSurfaceLost; the caller
// should retry the frame. Acquisition timeouts and outdated surfaces skip
// the frame without error. Out of memory is fatal. The frame is submitted
// in a single queue submission; no partial frame ever reaches the surface.
func (r *Renderer) RenderAndPresent(viewProjection *math32.Matrix4) error {
	surface, err := r.target.Acquire()
	if err != nil {
		return handleAcquireError(err, r.target, r.log)
	}

	r.planarGlyphs.revalidate(r.dev, r.queue)
	r.sdfGlyphs.revalidate(r.dev, r.queue)

	r.camera.ensure(r.dev, r.batchCount())
	slot := 0
	r.batchTransforms(func(id shapes.TransformID) {
		if id == shapes.NoTransform {
			r.camera.set(slot, viewProjection)
		} else {
			model := r.transforms.Get(id)
			var combined math32.Matrix4
			combined.MulMatrices(viewProjection, model)
			r.camera.set(slot, &combined)
		}
		slot++
	})
	r.camera.upload(r.queue)

	view := surface.Texture.CreateView(nil)
	defer view.Release()
	encoder := r.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "frame"})
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.clear,
			},
		},
	})
	pass.SetIndexBuffer(r.index.Buffer(), wgpu.IndexFormatUint32, 0, r.index.Size())

	slot = 0
	for kind := PipelineKind(0); kind < numPipelineKinds; kind++ {
		var batcher interface {
			draw(pass *wgpu.RenderPassEncoder, camera *cameraBuffer, slot *int)
		}
		switch kind {
		case PipelinePlanarGlyph:
			if len(r.planarGlyphs.batches) == 0 {
				continue
			}
			batcher = &r.planarGlyphs
		case PipelineSdfGlyph:
			if len(r.sdfGlyphs.batches) == 0 {
				continue
			}
			batcher = &r.sdfGlyphs
		case PipelineQuad:
			if len(r.quads.batches) == 0 {
				continue
			}
			batcher = &r.quads
		case PipelineTexture:
			if len(r.textures.batches) == 0 {
				continue
			}
			batcher = &r.textures
		}
		pass.SetPipeline(r.pipelines.pipelines[kind])
		batcher.draw(pass, &r.camera, &slot)
	}
	pass.End()

	cmd := encoder.Finish(nil)
	defer cmd.Release()
	r.queue.Submit(cmd)
	r.target.Present()
	return nil
}

// handleAcquireError maps a failed surface acquisition to the frame loop's
// policy: a lost surface is reconfigured and reported so the caller retries
// next frame, a timed-out or outdated surface skips the frame, and out of
// memory is fatal.
func handleAcquireError(err error, target Target, log *slog.Logger) error {
	switch {
	case errors.Is(err, ErrSurfaceLost):
		log.Info("surface lost, reconfiguring", "err", err)
		target.Reconfigure()
		return ErrSurfaceLost
	case errors.Is(err, ErrSurfaceTimeout), errors.Is(err, ErrSurfaceOutdated):
		log.Error("skipping frame", "err", err)
		return nil
	default:
		return fmt.Errorf("acquiring surface texture: %w", err)
	}
}

// ResizeSurface reconfigures the target for a new size.
func (r *Renderer) ResizeSurface(width, height uint32) {
	r.target.Resize(width, height)
}

func (r *Renderer) Release() {
	r.planarGlyphs.release(&r.pool)
	r.sdfGlyphs.release(&r.pool)
	r.quads.recycle(&r.pool)
	r.textures.recycle(&r.pool)
	r.pool.release()
	r.camera.release()
	r.index.Release()
	r.planarAtlas.Release()
	r.sdfAtlas.Release()
}
