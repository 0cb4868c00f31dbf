// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/curve"
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/gfx"
	"honnef.co/go/massif/glyph"
	"honnef.co/go/massif/mem"
	"honnef.co/go/massif/shapes"
)

type fakeTarget struct {
	acquireErr   error
	reconfigures int
	resizes      [][2]uint32
}

func (t *fakeTarget) Acquire() (*wgpu.SurfaceTexture, error) { return nil, t.acquireErr }
func (t *fakeTarget) Present()                               {}
func (t *fakeTarget) Reconfigure()                           { t.reconfigures++ }
func (t *fakeTarget) Resize(w, h uint32)                     { t.resizes = append(t.resizes, [2]uint32{w, h}) }
func (t *fakeTarget) Format() wgpu.TextureFormat             { return 0 }
func (t *fakeTarget) Size() (uint32, uint32)                 { return 800, 600 }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRenderer builds a renderer from fakes, bypassing pipeline and
// atlas construction. Prepare and the acquire-failure paths of
// RenderAndPresent never dereference GPU handles.
func newTestRenderer(dev Device, queue Queue, target Target) *Renderer {
	planar := newFakeAtlas()
	sdf := newFakeAtlas()
	r := &Renderer{
		dev:    dev,
		queue:  queue,
		target: target,
		log:    discardLogger(),
		arena:  mem.NewArena(),

		planarAtlas: planar,
		sdfAtlas:    sdf,

		textures: newTextureBatcher(nil, nil),
	}
	r.planarGlyphs = newGlyphBatcher(planar, nil, nil)
	r.sdfGlyphs = newGlyphBatcher(sdf, nil, nil)
	return r
}

func quadsDrawableOn(transform shapes.TransformID, n int) QuadsDrawable {
	shape := &shapes.QuadsShape{Transform: transform}
	for i := 0; i < n; i++ {
		x := float64(i) * 10
		shape.Quads = append(shape.Quads, shapes.QuadFromRect(
			curve.Rect{X0: x, Y0: 0, X1: x + 8, Y1: 8},
			gfx.Color{R: 1, A: 1},
		))
	}
	return QuadsDrawable{Shape: shape}
}

func TestPrepareBatchesQuadsByHandle(t *testing.T) {
	dev := &fakeDevice{}
	queue := &fakeQueue{}
	r := newTestRenderer(dev, queue, &fakeTarget{})

	a := r.Transforms().Identity()
	b := r.Transforms().Identity()

	// Shapes sharing a handle merge into one batch, even across drawables.
	r.Prepare([]Drawable{
		quadsDrawableOn(a, 2),
		quadsDrawableOn(b, 2),
		quadsDrawableOn(a, 1),
	})

	require.Len(t, r.quads.batches, 2)
	assert.Equal(t, a, r.quads.batches[0].transform)
	assert.Equal(t, uint32(3), r.quads.batches[0].quadCount)
	assert.Equal(t, b, r.quads.batches[1].transform)
	assert.Equal(t, uint32(2), r.quads.batches[1].quadCount)
	assert.Empty(t, r.planarGlyphs.batches)
	assert.Empty(t, r.sdfGlyphs.batches)
	assert.Equal(t, 2, r.batchCount())
	assert.GreaterOrEqual(t, r.index.Quads(), uint32(3))
}

func TestPrepareRoutesGlyphRuns(t *testing.T) {
	dev := &fakeDevice{}
	queue := &fakeQueue{}
	r := newTestRenderer(dev, queue, &fakeTarget{})
	planar := r.planarAtlas.(*fakeAtlas)
	sdf := r.sdfAtlas.(*fakeAtlas)

	a := r.Transforms().Identity()
	bold := glyphRunOn(a, glyph.CacheKey{Glyph: 1})
	bold.Run.Weight = glyph.WeightBold
	regular := glyphRunOn(a, glyph.CacheKey{Glyph: 2})
	distorted := glyphRunOn(a, glyph.CacheKey{Glyph: 3})

	r.Prepare([]Drawable{
		GlyphRunDrawable{Shape: bold, Class: glyph.PixelPerfect},
		GlyphRunDrawable{Shape: regular, Class: glyph.Zoomed},
		GlyphRunDrawable{Shape: distorted, Class: glyph.Distorted},
	})

	require.Len(t, r.planarGlyphs.batches, 1)
	require.Len(t, r.sdfGlyphs.batches, 1)
	assert.Equal(t, uint32(2), r.planarGlyphs.batches[0].quadCount)
	assert.Equal(t, uint32(1), r.sdfGlyphs.batches[0].quadCount)

	// The run's weight overrides the class default; unset weights keep it.
	require.Len(t, planar.params, 2)
	assert.Equal(t, glyph.WeightBold, planar.params[0].Weight)
	assert.Equal(t, glyph.WeightRegular, planar.params[1].Weight)
	require.Len(t, sdf.params, 1)
	assert.True(t, sdf.params[0].PreferSDF)

	// Prepare advances both atlases' frame epoch.
	assert.Equal(t, 1, planar.maintained)
	assert.Equal(t, 1, sdf.maintained)
}

func TestPrepareBucketsTextures(t *testing.T) {
	dev := &fakeDevice{}
	queue := &fakeQueue{}
	r := newTestRenderer(dev, queue, &fakeTarget{})

	a := r.Transforms().Identity()
	r.Prepare([]Drawable{
		TextureDrawable{Transform: a, Rect: curve.Rect{X1: 32, Y1: 32}},
		TextureDrawable{Transform: a, Rect: curve.Rect{X0: 40, X1: 72, Y1: 32}},
	})

	require.Len(t, r.textures.batches, 1)
	assert.Equal(t, uint32(2), r.textures.batches[0].quadCount)
}

func TestRenderAndPresentSurfaceLostKeepsBatches(t *testing.T) {
	dev := &fakeDevice{}
	queue := &fakeQueue{}
	target := &fakeTarget{acquireErr: ErrSurfaceLost}
	r := newTestRenderer(dev, queue, target)

	a := r.Transforms().Identity()
	r.Prepare([]Drawable{
		quadsDrawableOn(a, 3),
		GlyphRunDrawable{Shape: glyphRunOn(a, glyph.CacheKey{Glyph: 1}), Class: glyph.PixelPerfect},
	})
	buffers := dev.buffersCreated
	pooled := r.pool.count()
	batches := r.batchCount()

	var vp math32.Matrix4
	vp.SetIdentity()
	err := r.RenderAndPresent(&vp)
	assert.ErrorIs(t, err, ErrSurfaceLost)
	assert.Equal(t, 1, target.reconfigures)
	assert.Zero(t, queue.submits, "nothing reaches the surface")

	// The prepared frame survives untouched; the caller re-renders it after
	// the reconfigure without another Prepare.
	assert.Equal(t, batches, r.batchCount())
	assert.Equal(t, buffers, dev.buffersCreated)
	assert.Equal(t, pooled, r.pool.count())

	// Preparing the same frame again reuses the pooled vertex buffers.
	r.Prepare([]Drawable{
		quadsDrawableOn(a, 3),
		GlyphRunDrawable{Shape: glyphRunOn(a, glyph.CacheKey{Glyph: 1}), Class: glyph.PixelPerfect},
	})
	assert.Equal(t, buffers, dev.buffersCreated)
}

func TestHandleAcquireErrorLostReconfigures(t *testing.T) {
	target := &fakeTarget{}
	err := handleAcquireError(ErrSurfaceLost, target, discardLogger())
	assert.ErrorIs(t, err, ErrSurfaceLost)
	assert.Equal(t, 1, target.reconfigures)

	// Wrapped errors classify the same way.
	err = handleAcquireError(fmt.Errorf("frame 17: %w", ErrSurfaceLost), target, discardLogger())
	assert.ErrorIs(t, err, ErrSurfaceLost)
	assert.Equal(t, 2, target.reconfigures)
}

func TestHandleAcquireErrorSkipsFrame(t *testing.T) {
	target := &fakeTarget{}
	assert.NoError(t, handleAcquireError(ErrSurfaceTimeout, target, discardLogger()))
	assert.NoError(t, handleAcquireError(ErrSurfaceOutdated, target, discardLogger()))
	assert.Equal(t, 0, target.reconfigures)
}

func TestHandleAcquireErrorOutOfMemoryIsFatal(t *testing.T) {
	target := &fakeTarget{}
	err := handleAcquireError(ErrSurfaceOutOfMemory, target, discardLogger())
	assert.ErrorIs(t, err, ErrSurfaceOutOfMemory)
	assert.Equal(t, 0, target.reconfigures)
}

func TestGlyphPipelineRouting(t *testing.T) {
	assert.Equal(t, PipelinePlanarGlyph, glyphPipelineFor(glyph.Select(glyph.PixelPerfect)))
	assert.Equal(t, PipelinePlanarGlyph, glyphPipelineFor(glyph.Select(glyph.Zoomed)))
	assert.Equal(t, PipelineSdfGlyph, glyphPipelineFor(glyph.Select(glyph.Distorted)))
}

func TestPipelineKindOrder(t *testing.T) {
	// The draw order within a frame is fixed.
	assert.Equal(t, PipelineKind(0), PipelinePlanarGlyph)
	assert.Equal(t, PipelineKind(1), PipelineSdfGlyph)
	assert.Equal(t, PipelineKind(2), PipelineQuad)
	assert.Equal(t, PipelineKind(3), PipelineTexture)
	assert.Equal(t, PipelineKind(4), numPipelineKinds)
}
