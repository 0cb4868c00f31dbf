// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package text shapes strings into glyph runs the renderer can draw. It is a
// thin layer over HarfBuzz shaping; layout beyond a single horizontal run
// (wrapping, BiDi, rich text) is out of scope.
package text

import (
	"bytes"
	"math"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"honnef.co/go/massif/gfx"
	"honnef.co/go/massif/glyph"
	"honnef.co/go/massif/shapes"
)

// Shaper turns strings into shapes.GlyphRun values whose cache keys resolve
// against the rasterizer the shaper was built with. Not safe for concurrent
// use.
type Shaper struct {
	rast  *glyph.FontRasterizer
	hb    shaping.HarfbuzzShaper
	fonts map[uint64]*font.Font
}

func NewShaper(rast *glyph.FontRasterizer) *Shaper {
	return &Shaper{
		rast:  rast,
		fonts: make(map[uint64]*font.Font),
	}
}

// LoadFont parses OpenType font data and registers it with both the shaper
// and the rasterizer, returning the shared font id.
func (s *Shaper) LoadFont(data []byte) (uint64, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	id, err := s.rast.ParseFont(data)
	if err != nil {
		return 0, err
	}
	s.fonts[id] = face.Font
	return id, nil
}

// Shape shapes a single left-to-right run of text at the given pixel size.
// Returns nil if the string produces no glyphs.
func (s *Shaper) Shape(fontID uint64, str string, size float64, color gfx.Color, weight glyph.Weight) *shapes.GlyphRun {
	f := s.fonts[fontID]
	if f == nil || str == "" {
		return nil
	}

	runes := []rune(str)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	out := s.hb.Shape(input)
	if len(out.Glyphs) == 0 {
		return nil
	}

	mode := s.rast.Mode()
	ascent := fixedToFloat(out.LineBounds.Ascent)
	descent := math.Abs(fixedToFloat(out.LineBounds.Descent))

	glyphs := make([]shapes.RunGlyph, 0, len(out.Glyphs))
	var pen float64
	for _, g := range out.Glyphs {
		adv := fixedToFloat(g.Advance)
		pos, yPos := glyphOrigin(pen, g)
		glyphs = append(glyphs, shapes.RunGlyph{
			Key: glyph.CacheKey{
				Font:     fontID,
				Glyph:    uint16(g.GlyphID),
				PPEM:     uint16(math.Round(size)),
				Subpixel: mode.Quantize(pos),
			},
			HitboxPos:   [2]int32{int32(math.Floor(pos)), yPos},
			HitboxWidth: uint32(math.Ceil(adv)),
		})
		pen += adv
	}

	return &shapes.GlyphRun{
		Metrics: shapes.GlyphRunMetrics{
			MaxAscent:  int32(math.Ceil(ascent)),
			MaxDescent: int32(math.Ceil(descent)),
			Width:      uint32(math.Ceil(pen)),
		},
		Color:  color,
		Weight: weight,
		Glyphs: glyphs,
	}
}

// glyphOrigin applies the shaper's fine-grained offsets on top of the pen
// position. Shaping offsets are y-up while hitbox coordinates are y-down, so
// a positive YOffset raises the glyph above the baseline.
func glyphOrigin(pen float64, g shaping.Glyph) (x float64, y int32) {
	x = pen + fixedToFloat(g.XOffset)
	y = int32(math.Round(-fixedToFloat(g.YOffset)))
	return x, y
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
