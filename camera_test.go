// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func TestCameraBufferEnsureGrowth(t *testing.T) {
	dev := &fakeDevice{}
	c := newCameraBuffer(nil)

	c.ensure(dev, 3)
	assert.Equal(t, 16, c.capacity)
	assert.Equal(t, 3, c.used)
	assert.Equal(t, 1, dev.buffersCreated)
	assert.Equal(t, uint64(16*uniformStride), dev.lastBufferSize)

	// Within capacity: no reallocation.
	c.ensure(dev, 16)
	assert.Equal(t, 16, c.capacity)
	assert.Equal(t, 1, dev.buffersCreated)

	// Past capacity: doubles.
	c.ensure(dev, 17)
	assert.Equal(t, 32, c.capacity)
	assert.Equal(t, 2, dev.buffersCreated)

	// Far past double: jumps straight to the requested count.
	c.ensure(dev, 100)
	assert.Equal(t, 100, c.capacity)
}

func TestCameraBufferOffsets(t *testing.T) {
	c := newCameraBuffer(nil)
	assert.Equal(t, uint32(0), c.offset(0))
	assert.Equal(t, uint32(256), c.offset(1))
	assert.Equal(t, uint32(2560), c.offset(10))
}

func TestCameraBufferUpload(t *testing.T) {
	dev := &fakeDevice{}
	queue := &fakeQueue{}
	c := newCameraBuffer(nil)

	c.ensure(dev, 2)
	var m math32.Matrix4
	m.SetIdentity()
	c.set(0, &m)
	c.set(1, &m)
	c.upload(queue)
	if assert.Len(t, queue.writes, 1) {
		assert.Equal(t, 2*uniformStride, queue.writes[0].size)
	}

	// Slots land at aligned offsets in the staging area.
	assert.Equal(t, float32(1), vertexBytesAsFloat(c.staging[0:4]))
	assert.Equal(t, float32(1), vertexBytesAsFloat(c.staging[uniformStride:uniformStride+4]))

	c.ensure(dev, 0)
	c.upload(queue)
	assert.Len(t, queue.writes, 1)
}

func vertexBytesAsFloat(b []byte) float32 {
	var f [1]float32
	copy(vertexBytes(f[:]), b)
	return f[0]
}
