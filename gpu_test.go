// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"honnef.co/go/wgpu"
)

// fakeDevice records resource creation without touching a GPU. The returned
// handles are nil; nothing in the batching layer dereferences them.
type fakeDevice struct {
	buffersCreated    int
	bindGroupsCreated int
	lastBufferSize    uint64
	lastBufferUsage   wgpu.BufferUsage
}

func (d *fakeDevice) CreateBuffer(desc *wgpu.BufferDescriptor) *wgpu.Buffer {
	d.buffersCreated++
	d.lastBufferSize = desc.Size
	d.lastBufferUsage = desc.Usage
	return nil
}

func (d *fakeDevice) CreateBindGroup(desc *wgpu.BindGroupDescriptor) *wgpu.BindGroup {
	d.bindGroupsCreated++
	return nil
}

func (d *fakeDevice) CreateCommandEncoder(desc *wgpu.CommandEncoderDescriptor) *wgpu.CommandEncoder {
	return nil
}

type bufferWrite struct {
	offset uint64
	size   int
}

type fakeQueue struct {
	writes  []bufferWrite
	submits int
}

func (q *fakeQueue) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	q.writes = append(q.writes, bufferWrite{offset: offset, size: len(data)})
}

func (q *fakeQueue) Submit(cmd ...*wgpu.CommandBuffer) {
	q.submits++
}
