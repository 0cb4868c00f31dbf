// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package glyph provides the glyph-side collaborators of the renderer:
// rasterization strategy selection, cache keys, CPU rasterization, and the
// growable texture atlas.
package glyph

import "fmt"

// Class is a glyph's current rendering regime, decided by the scene layer
// from the nature of the active transform.
type Class int

const (
	// PixelPerfect glyphs are shown at their native size under pure
	// translation.
	PixelPerfect Class = iota
	// Zoomed glyphs are under a uniform, axis-aligned scale.
	Zoomed
	// Distorted glyphs are under an arbitrary affine transform (rotation,
	// skew, non-uniform scale).
	Distorted
)

func (c Class) String() string {
	switch c {
	case PixelPerfect:
		return "PixelPerfect"
	case Zoomed:
		return "Zoomed"
	case Distorted:
		return "Distorted"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Weight is a font weight on the usual 100..900 scale.
type Weight uint16

const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightRegular    Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// Param selects how a glyph is rasterized.
type Param struct {
	// PreferSDF routes the glyph through the distance-field pipeline, which
	// resamples cleanly under arbitrary affine transforms at the cost of
	// slightly softer edges.
	PreferSDF bool
	Hinted    bool
	Weight    Weight
}

// Select maps a rendering regime to its rasterization parameters. The
// mapping is total over the closed set of classes. Planar rasterization
// wins whenever crisp, hint-aligned pixel edges are visible (PixelPerfect,
// Zoomed); the distance field wins once the transform is no longer an
// axis-aligned uniform scale (Distorted).
//
// Hinting stays enabled on the Distorted path too: the hinted outline feeds
// the distance field before any transform applies, so hint alignment cannot
// hurt, even if the transform later hides it.
func Select(class Class) Param {
	switch class {
	case PixelPerfect, Zoomed:
		return Param{PreferSDF: false, Hinted: true, Weight: WeightRegular}
	case Distorted:
		return Param{PreferSDF: true, Hinted: true, Weight: WeightRegular}
	default:
		panic(fmt.Sprintf("invalid glyph class %d", int(class)))
	}
}

// WithWeight returns the parameters with the weight replaced by w.
func (p Param) WithWeight(w Weight) Param {
	p.Weight = w
	return p
}
