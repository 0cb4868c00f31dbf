// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestVertexStrides(t *testing.T) {
	assert.Equal(t, uintptr(colorVertexStride), unsafe.Sizeof(ColorVertex{}))
	assert.Equal(t, uintptr(glyphVertexStride), unsafe.Sizeof(GlyphVertex{}))
	assert.Equal(t, uintptr(textureVertexStride), unsafe.Sizeof(TextureVertex{}))
}

func TestVertexBytes(t *testing.T) {
	vs := []ColorVertex{{}, {}, {}}
	assert.Len(t, vertexBytes(vs), 3*int(colorVertexStride))
	assert.Empty(t, vertexBytes[ColorVertex](nil))
}
