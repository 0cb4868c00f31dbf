// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"errors"
	"fmt"

	"honnef.co/go/wgpu"
)

// Surface acquisition failures, classified for the renderer's frame loop.
// Lost surfaces are recoverable by reconfiguring; out of memory is fatal;
// timeouts and outdated surfaces mean the frame should be skipped.
var (
	ErrSurfaceLost        = errors.New("surface lost")
	ErrSurfaceOutOfMemory = errors.New("surface out of memory")
	ErrSurfaceTimeout     = errors.New("surface acquisition timed out")
	ErrSurfaceOutdated    = errors.New("surface outdated")
)

// Target is the render destination as the renderer sees it. Acquire returns
// the texture to render the next frame into, or an error wrapping one of
// the surface sentinel errors. Present shows the acquired texture;
// Reconfigure reapplies the surface configuration after a loss.
type Target interface {
	Acquire() (*wgpu.SurfaceTexture, error)
	Present()
	Reconfigure()
	Resize(width, height uint32)
	Format() wgpu.TextureFormat
	Size() (width, height uint32)
}

// SurfaceTarget adapts a window surface to the Target interface.
type SurfaceTarget struct {
	surface *wgpu.Surface
	device  *wgpu.Device
	config  wgpu.SurfaceConfiguration
}

func NewSurfaceTarget(dev *wgpu.Device, surface *wgpu.Surface, format wgpu.TextureFormat, width, height uint32) *SurfaceTarget {
	t := &SurfaceTarget{
		surface: surface,
		device:  dev,
		config: wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      format,
			Width:       max(width, 1),
			Height:      max(height, 1),
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   wgpu.CompositeAlphaModeAuto,
		},
	}
	t.surface.Configure(dev, &t.config)
	return t
}

func (t *SurfaceTarget) Acquire() (*wgpu.SurfaceTexture, error) {
	st, err := t.surface.CurrentTexture()
	switch {
	case err == nil:
		return &st, nil
	case errors.Is(err, wgpu.ErrCurrentTextureTimeout):
		return nil, ErrSurfaceTimeout
	case errors.Is(err, wgpu.ErrCurrentTextureOutdated):
		return nil, ErrSurfaceOutdated
	case errors.Is(err, wgpu.ErrCurrentTextureLost),
		errors.Is(err, wgpu.ErrCurrentTextureDeviceLost):
		return nil, ErrSurfaceLost
	case errors.Is(err, wgpu.ErrCurrentTextureOutOfMemory):
		return nil, ErrSurfaceOutOfMemory
	default:
		return nil, fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	}
}

func (t *SurfaceTarget) Present() {
	t.surface.Present()
}

func (t *SurfaceTarget) Reconfigure() {
	t.surface.Configure(t.device, &t.config)
}

// Resize updates the surface configuration for a new window size. Zero
// dimensions are clamped to 1; window systems report zero sizes while
// minimized.
func (t *SurfaceTarget) Resize(width, height uint32) {
	width = max(width, 1)
	height = max(height, 1)
	if width == t.config.Width && height == t.config.Height {
		return
	}
	t.config.Width = width
	t.config.Height = height
	t.surface.Configure(t.device, &t.config)
}

func (t *SurfaceTarget) Format() wgpu.TextureFormat {
	return t.config.Format
}

func (t *SurfaceTarget) Size() (uint32, uint32) {
	return t.config.Width, t.config.Height
}
