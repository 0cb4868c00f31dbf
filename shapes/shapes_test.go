// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shapes

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"honnef.co/go/curve"

	"honnef.co/go/massif/gfx"
	"honnef.co/go/massif/glyph"
)

func TestQuadFromRect(t *testing.T) {
	q := QuadFromRect(curve.Rect{X0: 1, Y0: 2, X1: 5, Y1: 8}, gfx.Color{R: 1, A: 1})
	assert.Equal(t, curve.Point{X: 1, Y: 2}, q.Corners[0])
	assert.Equal(t, curve.Point{X: 5, Y: 2}, q.Corners[1])
	assert.Equal(t, curve.Point{X: 5, Y: 8}, q.Corners[2])
	assert.Equal(t, curve.Point{X: 1, Y: 8}, q.Corners[3])
}

func TestRunGlyphPlace(t *testing.T) {
	g := RunGlyph{HitboxPos: [2]int32{20, 4}, HitboxWidth: 10}
	// Baseline sits 12px below the run's top edge. The image extends 2px
	// left of the pen and 9px above the baseline.
	p := glyph.Placement{Left: -2, Top: 9, Width: 12, Height: 11}
	r := g.Place(12, p)
	assert.Equal(t, curve.Rect{X0: 18, Y0: 7, X1: 30, Y1: 18}, r)
}

func TestRunGlyphPixelBounds(t *testing.T) {
	m := GlyphRunMetrics{MaxAscent: 10, MaxDescent: 4, Width: 100}
	g := RunGlyph{HitboxPos: [2]int32{16, 0}, HitboxWidth: 8}
	r := g.PixelBounds(m)
	assert.Equal(t, curve.Rect{X0: 16, Y0: 0, X1: 24, Y1: 14}, r)
}

func TestGlyphRunMetricsSize(t *testing.T) {
	m := GlyphRunMetrics{MaxAscent: 10, MaxDescent: 4, Width: 100}
	w, h := m.Size()
	assert.Equal(t, uint32(100), w)
	assert.Equal(t, uint32(14), h)
}

func TestTransformArenaHandles(t *testing.T) {
	var a TransformArena
	var m math32.Matrix4
	m.SetIdentity()

	// Value-equal matrices still get distinct handles.
	id1 := a.Alloc(m)
	id2 := a.Alloc(m)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, a.Len())

	var ident math32.Quat
	ident.SetIdentity()
	var moved math32.Matrix4
	moved.SetTransform(math32.Vec3(3, 4, 0), ident, math32.Vec3(1, 1, 1))
	a.Set(id2, moved)
	assert.Equal(t, moved, *a.Get(id2))
	assert.Equal(t, m, *a.Get(id1))
}

func TestTransformArenaInvalidHandle(t *testing.T) {
	var a TransformArena
	assert.Panics(t, func() { a.Get(NoTransform) })
	assert.Panics(t, func() { a.Get(0) })
}
