// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import "honnef.co/go/wgpu"

// Device is the subset of *wgpu.Device the renderer needs. Narrowing it
// here keeps batch preparation and the frame loop testable without a GPU.
type Device interface {
	CreateBuffer(desc *wgpu.BufferDescriptor) *wgpu.Buffer
	CreateBindGroup(desc *wgpu.BindGroupDescriptor) *wgpu.BindGroup
	CreateCommandEncoder(desc *wgpu.CommandEncoderDescriptor) *wgpu.CommandEncoder
}

// Queue is the subset of *wgpu.Queue the renderer needs.
type Queue interface {
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)
	Submit(cmd ...*wgpu.CommandBuffer)
}

var _ Device = (*wgpu.Device)(nil)
var _ Queue = (*wgpu.Queue)(nil)
