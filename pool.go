// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/mmath"
)

// bufferProps is the reuse key for pooled buffers: rounded size plus usage.
type bufferProps struct {
	size  uint64
	usage wgpu.BufferUsage
}

// bufferPool recycles per-frame vertex buffers between frames. Sizes are
// rounded up into coarse classes so that frames with slightly different
// batch sizes still hit the pool.
type bufferPool struct {
	bufs map[bufferProps][]*wgpu.Buffer
}

const poolSizeClassBits = 1

// get returns a pooled or fresh buffer covering size bytes, along with the
// rounded size to pass back to put.
func (p *bufferPool) get(dev Device, size uint64, label string, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64) {
	rounded := mmath.SizeClass(size, poolSizeClassBits)
	props := bufferProps{size: rounded, usage: usage}
	if free := p.bufs[props]; len(free) > 0 {
		buf := free[len(free)-1]
		p.bufs[props] = free[:len(free)-1]
		return buf, rounded
	}
	buf := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  rounded,
		Usage: usage,
	})
	return buf, rounded
}

// put returns a buffer to the pool. rounded must be the size get reported.
func (p *bufferPool) put(buf *wgpu.Buffer, rounded uint64, usage wgpu.BufferUsage) {
	if p.bufs == nil {
		p.bufs = make(map[bufferProps][]*wgpu.Buffer)
	}
	props := bufferProps{size: rounded, usage: usage}
	p.bufs[props] = append(p.bufs[props], buf)
}

// count returns the number of idle buffers held by the pool.
func (p *bufferPool) count() int {
	n := 0
	for _, free := range p.bufs {
		n += len(free)
	}
	return n
}

func (p *bufferPool) release() {
	for _, free := range p.bufs {
		for _, buf := range free {
			if buf != nil {
				buf.Release()
			}
		}
	}
	p.bufs = nil
}
