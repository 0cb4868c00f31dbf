// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceField(t *testing.T) {
	// A solid 8x8 square.
	mask := image.NewAlpha(image.Rect(0, 0, 8, 8))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}

	const spread = 4
	df := DistanceField(mask, spread)
	require.Equal(t, image.Rect(0, 0, 16, 16), df.Bounds())

	center := df.Pix[8*df.Stride+8]
	corner := df.Pix[0]
	edge := df.Pix[8*df.Stride+spread] // on the square's left edge

	assert.Greater(t, center, uint8(128), "center is inside")
	assert.Less(t, corner, uint8(128), "padding corner is outside")
	assert.InDelta(t, 128, int(edge), 24, "edge sits near the midpoint")
	assert.Greater(t, center, edge)
	assert.Less(t, corner, edge)
}

func TestDistanceFieldSaturates(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 32, 32))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	df := DistanceField(mask, 2)
	assert.Equal(t, uint8(255), df.Pix[18*df.Stride+18], "deep inside saturates")
	assert.Equal(t, uint8(0), df.Pix[0], "far outside saturates")
}
