// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"structs"

	"honnef.co/go/safeish"
)

// ColorVertex is the quad pipeline's vertex: a position and a premultiplied
// color.
type ColorVertex struct {
	_ structs.HostLayout

	Position [3]float32
	Color    [4]float32
}

// GlyphVertex is the glyph pipelines' vertex. AtlasPos is in atlas pixel
// space; the shader divides by the current atlas size, so vertex data stays
// valid when the atlas grows.
type GlyphVertex struct {
	_ structs.HostLayout

	Position [3]float32
	AtlasPos [2]float32
	Color    [4]float32
}

// TextureVertex is the texture pipeline's vertex, with normalized UVs.
type TextureVertex struct {
	_ structs.HostLayout

	Position [3]float32
	UV       [2]float32
}

const (
	colorVertexStride   = 3*4 + 4*4
	glyphVertexStride   = 3*4 + 2*4 + 4*4
	textureVertexStride = 3*4 + 2*4
)

func vertexBytes[T any](vertices []T) []byte {
	return safeish.SliceCast[[]byte](vertices)
}
