// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"structs"
	"unsafe"

	"cogentcore.org/core/math32"
	"honnef.co/go/wgpu"
)

// zNear and zFar bound the scene's depth range.
const (
	zNear = 0.1
	zFar  = 100.0
)

// cameraUniform is one element of the per-frame uniform array. Each batch
// draws with its own combined camera*model matrix, addressed by a dynamic
// offset.
type cameraUniform struct {
	_ structs.HostLayout

	Matrix math32.Matrix4
}

// uniformStride is the dynamic-offset stride between elements. wgpu's
// default minimum uniform offset alignment is 256.
const uniformStride = 256

// ViewProjection returns the standard view-projection matrix for a surface
// of the given size: a perspective projection looking down -Z from distance
// dist.
func ViewProjection(width, height uint32, fovDeg, dist float32) math32.Matrix4 {
	campos := math32.Vec3(0, 0, dist)
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(campos, math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0)))
	var cview math32.Matrix4
	cview.SetTransform(campos, lookq, math32.Vec3(1, 1, 1))
	view, _ := cview.Inverse()

	var proj math32.Matrix4
	aspect := float32(width) / float32(max(height, 1))
	proj.SetPerspective(fovDeg, aspect, zNear, zFar)

	var vp math32.Matrix4
	vp.MulMatrices(&proj, view)
	return vp
}

// PixelMatrix maps a pixel coordinate space with the origin at the top left
// and y growing downward into the unit space the view-projection consumes:
// it flips y and scales 2/surfaceHeight units per pixel.
func PixelMatrix(surfaceHeight uint32) math32.Matrix4 {
	s := 2 / float32(max(surfaceHeight, 1))
	var ident math32.Quat
	ident.SetIdentity()
	var m math32.Matrix4
	m.SetTransform(math32.Vec3(0, 0, 0), ident, math32.Vec3(s, -s, 1))
	return m
}

// cameraBuffer holds the frame's combined matrices, one aligned slot per
// batch, bound once at group 0 with a per-draw dynamic offset.
type cameraBuffer struct {
	buf       *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	layout    *wgpu.BindGroupLayout
	capacity  int
	staging   []byte
	used      int
}

func newCameraBuffer(layout *wgpu.BindGroupLayout) cameraBuffer {
	return cameraBuffer{layout: layout}
}

// ensure makes room for n slots, growing by doubling. Growth replaces the
// buffer and its bind group; both are rebuilt before the render pass opens,
// so no pass ever holds a stale reference.
func (c *cameraBuffer) ensure(dev Device, n int) {
	if n <= c.capacity && c.buf != nil {
		c.used = n
		return
	}
	newCap := max(c.capacity*2, n, 16)
	if c.bindGroup != nil {
		c.bindGroup.Release()
	}
	if c.buf != nil {
		c.buf.Release()
	}
	c.buf = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "camera uniforms",
		Size:  uint64(newCap) * uniformStride,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	c.bindGroup = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "camera uniforms",
		Layout: c.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  c.buf,
				Offset:  0,
				Size:    uint64(unsafe.Sizeof(cameraUniform{})),
			},
		},
	})
	c.capacity = newCap
	c.staging = make([]byte, newCap*uniformStride)
	c.used = n
}

// set writes the matrix for slot i into the staging area.
func (c *cameraBuffer) set(i int, m *math32.Matrix4) {
	u := cameraUniform{Matrix: *m}
	copy(c.staging[i*uniformStride:], vertexBytes([]cameraUniform{u}))
}

// upload pushes all written slots to the GPU in one write.
func (c *cameraBuffer) upload(queue Queue) {
	if c.used == 0 {
		return
	}
	queue.WriteBuffer(c.buf, 0, c.staging[:c.used*uniformStride])
}

// offset returns slot i's dynamic offset.
func (c *cameraBuffer) offset(i int) uint32 {
	return uint32(i) * uniformStride
}

func (c *cameraBuffer) release() {
	if c.bindGroup != nil {
		c.bindGroup.Release()
		c.bindGroup = nil
	}
	if c.buf != nil {
		c.buf.Release()
		c.buf = nil
	}
	c.capacity = 0
}
