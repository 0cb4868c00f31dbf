// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

import "math"

// SubpixelMode is the number of horizontal sub-pixel positions a glyph can
// be rasterized at. More positions improve placement quality at small sizes
// and multiply the number of cache entries per glyph.
type SubpixelMode int

const (
	SubpixelNone SubpixelMode = 0
	Subpixel4    SubpixelMode = 4
)

// Divisions returns the number of sub-pixel buckets, at least 1.
func (m SubpixelMode) Divisions() int {
	if m <= 0 {
		return 1
	}
	return int(m)
}

// Quantize buckets the fractional part of x.
func (m SubpixelMode) Quantize(x float64) uint8 {
	n := m.Divisions()
	if n == 1 {
		return 0
	}
	frac := x - math.Floor(x)
	return uint8(int(frac*float64(n)) % n)
}

// Offset returns the fractional pixel offset of bucket b.
func (m SubpixelMode) Offset(b uint8) float64 {
	n := m.Divisions()
	if n == 1 {
		return 0
	}
	return float64(b) / float64(n)
}

// CacheKey identifies one rasterized glyph image: font, glyph, size and the
// sub-pixel bucket it was positioned in. The renderer treats the key as
// opaque; only the rasterizer interprets it.
type CacheKey struct {
	Font     uint64
	Glyph    uint16
	PPEM     uint16
	Subpixel uint8
}
