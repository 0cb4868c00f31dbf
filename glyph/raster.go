// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Placement positions a rasterized glyph image relative to its baseline
// origin. Left is the horizontal bearing; Top is measured upward from the
// baseline to the image's top edge.
type Placement struct {
	Left   int32
	Top    int32
	Width  uint32
	Height uint32
}

// Image is a rasterized glyph: an alpha mask (a coverage mask for planar
// glyphs, a distance field for SDF glyphs) plus its placement metrics.
type Image struct {
	Mask      *image.Alpha
	Placement Placement
	Advance   float32
}

// Rasterizer produces glyph images for cache keys. Returning false means
// the glyph has no image (whitespace, unknown font) and is skipped; that is
// not an error.
type Rasterizer interface {
	Rasterize(key CacheKey, p Param) (*Image, bool)
}

// FontRasterizer rasterizes glyph outlines from registered fonts. Planar
// glyphs become coverage masks; SDF glyphs are additionally converted to a
// distance field with a fixed spread.
//
// Not safe for concurrent use; the renderer drives it from the frame loop.
type FontRasterizer struct {
	mode   SubpixelMode
	spread int
	fonts  map[uint64]*sfnt.Font
	nextID uint64
	buf    sfnt.Buffer
}

// SDFSpread is the distance-field extent in pixels around a glyph's edge.
const SDFSpread = 8

func NewFontRasterizer(mode SubpixelMode) *FontRasterizer {
	return &FontRasterizer{
		mode:   mode,
		spread: SDFSpread,
		fonts:  make(map[uint64]*sfnt.Font),
		nextID: 1,
	}
}

// AddFont registers a parsed font and returns its id for use in cache keys.
func (r *FontRasterizer) AddFont(f *sfnt.Font) uint64 {
	id := r.nextID
	r.nextID++
	r.fonts[id] = f
	return id
}

// ParseFont parses OpenType font data and registers it.
func (r *FontRasterizer) ParseFont(data []byte) (uint64, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return 0, err
	}
	return r.AddFont(f), nil
}

// Font returns the font registered under id, or nil.
func (r *FontRasterizer) Font(id uint64) *sfnt.Font {
	return r.fonts[id]
}

// Mode returns the sub-pixel mode keys are quantized with.
func (r *FontRasterizer) Mode() SubpixelMode {
	return r.mode
}

func (r *FontRasterizer) Rasterize(key CacheKey, p Param) (*Image, bool) {
	f := r.fonts[key.Font]
	if f == nil {
		return nil, false
	}
	ppem := fixed.I(int(key.PPEM))
	segs, err := f.LoadGlyph(&r.buf, sfnt.GlyphIndex(key.Glyph), ppem, nil)
	if err != nil || len(segs) == 0 {
		return nil, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	visit := func(pt fixed.Point26_6) {
		x := fixedToFloat(pt.X)
		y := fixedToFloat(pt.Y)
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo, sfnt.SegmentOpLineTo:
			visit(seg.Args[0])
		case sfnt.SegmentOpQuadTo:
			visit(seg.Args[0])
			visit(seg.Args[1])
		case sfnt.SegmentOpCubeTo:
			visit(seg.Args[0])
			visit(seg.Args[1])
			visit(seg.Args[2])
		}
	}

	// Glyph coordinates are y-down with the origin on the baseline. The
	// sub-pixel offset shifts the outline right within the mask.
	dx := r.mode.Offset(key.Subpixel)
	left := int(math.Floor(minX + dx))
	top := int(math.Floor(minY))
	w := int(math.Ceil(maxX+dx)) - left
	h := int(math.Ceil(maxY)) - top
	if w <= 0 || h <= 0 {
		return nil, false
	}

	rast := vector.NewRasterizer(w, h)
	rast.DrawOp = draw.Src
	tx := float32(dx - float64(left))
	ty := float32(-top)
	at := func(pt fixed.Point26_6) (float32, float32) {
		return float32(fixedToFloat(pt.X)) + tx, float32(fixedToFloat(pt.Y)) + ty
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := at(seg.Args[0])
			rast.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := at(seg.Args[0])
			rast.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			bx, by := at(seg.Args[0])
			cx, cy := at(seg.Args[1])
			rast.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := at(seg.Args[0])
			cx, cy := at(seg.Args[1])
			ex, ey := at(seg.Args[2])
			rast.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	hinting := font.HintingNone
	if p.Hinted {
		hinting = font.HintingFull
	}
	advance, err := f.GlyphAdvance(&r.buf, sfnt.GlyphIndex(key.Glyph), ppem, hinting)
	if err != nil {
		advance = 0
	}

	img := &Image{
		Mask: mask,
		Placement: Placement{
			Left:   int32(left),
			Top:    int32(-top),
			Width:  uint32(w),
			Height: uint32(h),
		},
		Advance: float32(fixedToFloat(advance)),
	}
	if p.PreferSDF {
		img.Mask = DistanceField(img.Mask, r.spread)
		img.Placement.Left -= int32(r.spread)
		img.Placement.Top += int32(r.spread)
		img.Placement.Width += uint32(2 * r.spread)
		img.Placement.Height += uint32(2 * r.spread)
	}
	return img, true
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
