// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package shapes defines the drawable primitives handed to the renderer each
// frame: colored quads and glyph runs, both positioned by a shared transform
// handle.
package shapes

import (
	"honnef.co/go/curve"

	"honnef.co/go/massif/gfx"
	"honnef.co/go/massif/glyph"
)

// Quad is the atomic drawable unit: four corner positions and one color. It
// is always emitted as four vertices forming two triangles.
type Quad struct {
	Corners [4]curve.Point
	Color   gfx.Color
}

// QuadFromRect returns the quad covering r, with corners in the order
// top-left, top-right, bottom-right, bottom-left.
func QuadFromRect(r curve.Rect, c gfx.Color) Quad {
	return Quad{
		Corners: [4]curve.Point{
			{X: r.X0, Y: r.Y0},
			{X: r.X1, Y: r.Y0},
			{X: r.X1, Y: r.Y1},
			{X: r.X0, Y: r.Y1},
		},
		Color: c,
	}
}

// QuadsShape is an ordered sequence of quads positioned by one shared
// transform handle.
type QuadsShape struct {
	Transform TransformID
	Quads     []Quad
}

// GlyphRunShape positions a glyph run in the scene. Translation is applied in
// the transform's local space, in pixels.
type GlyphRunShape struct {
	Transform   TransformID
	Translation curve.Vec2
	Run         *GlyphRun
}

// GlyphRun is a shaped sequence of glyphs sharing one baseline, color and
// weight.
type GlyphRun struct {
	Metrics GlyphRunMetrics
	Color   gfx.Color
	Weight  glyph.Weight
	Glyphs  []RunGlyph
}

// GlyphRunMetrics are the vertical metrics of a run, in pixels.
type GlyphRunMetrics struct {
	MaxAscent  int32
	MaxDescent int32
	Width      uint32
}

// Size returns the run's hitbox size.
func (m GlyphRunMetrics) Size() (uint32, uint32) {
	return m.Width, uint32(m.MaxAscent + m.MaxDescent)
}

// RunGlyph is one glyph of a run: its rasterization cache key plus the
// hitbox used for placement and hit testing. HitboxPos is relative to the
// run's top-left corner.
type RunGlyph struct {
	Key         glyph.CacheKey
	HitboxPos   [2]int32
	HitboxWidth uint32
}

// Place computes the destination rectangle of a rasterized glyph image
// relative to the run's top-left corner. The image's bearings are relative
// to the baseline, which sits maxAscent pixels below the run's top edge.
func (g RunGlyph) Place(maxAscent int32, p glyph.Placement) curve.Rect {
	left := float64(g.HitboxPos[0] + p.Left)
	top := float64(g.HitboxPos[1] + maxAscent - p.Top)
	return curve.Rect{
		X0: left,
		Y0: top,
		X1: left + float64(p.Width),
		Y1: top + float64(p.Height),
	}
}

// PixelBounds returns the glyph's hitbox rectangle within the run.
func (g RunGlyph) PixelBounds(m GlyphRunMetrics) curve.Rect {
	x := float64(g.HitboxPos[0])
	y := float64(g.HitboxPos[1])
	_, h := m.Size()
	return curve.Rect{
		X0: x,
		Y0: y,
		X1: x + float64(g.HitboxWidth),
		Y1: y + float64(h),
	}
}
