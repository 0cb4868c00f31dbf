// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package gfx provides the color types shared by shapes and the renderer.
package gfx

import (
	"honnef.co/go/color"
)

// Color is a straight-alpha linear sRGB color. It is the color type carried
// by shapes; conversion to the premultiplied form happens when vertices are
// built.
type Color struct {
	R, G, B, A float32
}

// FromColor converts a color from any color space to a linear sRGB Color.
func FromColor(c *color.Color) Color {
	cc := c.Convert(color.LinearSRGB)
	return Color{
		R: float32(cc.Values[0]),
		G: float32(cc.Values[1]),
		B: float32(cc.Values[2]),
		A: float32(cc.Values[3]),
	}
}

// Premul returns the color with premultiplied alpha, in the layout vertex
// buffers expect.
func (c Color) Premul() [4]float32 {
	return [4]float32{
		c.R * c.A,
		c.G * c.A,
		c.B * c.A,
		c.A,
	}
}

// WithAlpha returns the color with its alpha replaced by a.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}
