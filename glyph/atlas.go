// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

import (
	"image"
	"log/slog"

	"honnef.co/go/wgpu"
)

// Device is the subset of the GPU device the atlas needs.
type Device interface {
	CreateTexture(desc *wgpu.TextureDescriptor) *wgpu.Texture
}

// Queue is the subset of the GPU queue the atlas needs.
type Queue interface {
	WriteTexture(dst *wgpu.ImageCopyTexture, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D)
}

var (
	_ Device = (*wgpu.Device)(nil)
	_ Queue  = (*wgpu.Queue)(nil)
)

// AtlasRect is an integer rectangle in atlas pixel space. Rectangles stay at
// their position for the lifetime of the atlas, including across growth.
type AtlasRect struct {
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

type AtlasOptions struct {
	Label string
	// SDF rasterizes inserted glyphs as distance fields.
	SDF bool
	// InitialSize is the starting edge length of the square atlas texture.
	// Defaults to 512.
	InitialSize uint32
	// MaxSize caps growth. Defaults to 8192.
	MaxSize uint32
	// Padding is the gap between packed rectangles. Defaults to 1.
	Padding uint32
	Logger  *slog.Logger
}

// Atlas is a growable single-channel texture holding rasterized glyph
// images, keyed by cache key. The texture grows by doubling when full;
// growth reallocates the texture but never moves already-packed rectangles,
// so pixel-space rectangles held by callers stay valid. Each reallocation
// bumps the generation, signalling dependent bind groups that they are
// stale.
type Atlas struct {
	dev     Device
	queue   Queue
	cache   *Cache
	sdf     bool
	label   string
	maxSize uint32
	log     *slog.Logger

	packer     shelfPacker
	regions    map[cacheID]atlasRegion
	backing    *image.Alpha
	texture    *wgpu.Texture
	view       *wgpu.TextureView
	size       uint32
	generation uint64
}

func NewAtlas(dev Device, queue Queue, rast Rasterizer, opts AtlasOptions) *Atlas {
	if opts.InitialSize == 0 {
		opts.InitialSize = 512
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = 8192
	}
	if opts.Padding == 0 {
		opts.Padding = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	a := &Atlas{
		dev:     dev,
		queue:   queue,
		cache:   NewCache(rast),
		sdf:     opts.SDF,
		label:   opts.Label,
		maxSize: opts.MaxSize,
		log:     opts.Logger,

		packer:     newShelfPacker(opts.InitialSize, opts.InitialSize, opts.Padding),
		regions:    make(map[cacheID]atlasRegion),
		backing:    image.NewAlpha(image.Rect(0, 0, int(opts.InitialSize), int(opts.InitialSize))),
		size:       opts.InitialSize,
		generation: 1,
	}
	a.texture, a.view = a.createTexture()
	return a
}

// atlasRegion pairs a packed rectangle with the placement metrics of the
// image stored in it. ok is false for glyphs that couldn't be packed;
// recording those stops a full atlas from re-packing every glyph every
// frame.
type atlasRegion struct {
	rect  AtlasRect
	place Placement
	ok    bool
}

// LookupOrInsert returns the atlas rectangle holding the glyph identified
// by key and its placement metrics, rasterizing and uploading the glyph
// first if needed. ok is false when the glyph has no image or the atlas is
// full at its maximum size.
func (a *Atlas) LookupOrInsert(key CacheKey, p Param) (AtlasRect, Placement, bool) {
	p.PreferSDF = a.sdf
	id := cacheID{key, p}
	if r, ok := a.regions[id]; ok {
		return r.rect, r.place, r.ok
	}
	img, ok := a.cache.Get(key, p)
	if !ok {
		return AtlasRect{}, Placement{}, false
	}

	w := img.Placement.Width
	h := img.Placement.Height
	x, y, ok := a.packer.alloc(w, h)
	for !ok {
		if !a.grow() {
			a.log.Error("glyph atlas full", "label", a.label, "size", a.size)
			a.regions[id] = atlasRegion{}
			return AtlasRect{}, Placement{}, false
		}
		x, y, ok = a.packer.alloc(w, h)
	}

	a.blit(img.Mask, int(x), int(y))
	a.upload(img.Mask, x, y)

	rect := AtlasRect{X: x, Y: y, Width: w, Height: h}
	a.regions[id] = atlasRegion{rect: rect, place: img.Placement, ok: true}
	return rect, img.Placement, true
}

// Image returns the cached rasterization for key.
func (a *Atlas) Image(key CacheKey, p Param) (*Image, bool) {
	p.PreferSDF = a.sdf
	return a.cache.Get(key, p)
}

// View returns the current texture view. It is invalidated by growth; check
// Generation before reusing a bind group built against it.
func (a *Atlas) View() *wgpu.TextureView {
	return a.view
}

// Size returns the current edge length of the square texture.
func (a *Atlas) Size() uint32 {
	return a.size
}

// Generation increases every time the texture is reallocated.
func (a *Atlas) Generation() uint64 {
	return a.generation
}

// Maintain advances the rasterization cache's epoch. Call once per frame.
func (a *Atlas) Maintain() {
	a.cache.Maintain()
}

func (a *Atlas) Release() {
	if a.view != nil {
		a.view.Release()
	}
	if a.texture != nil {
		a.texture.Release()
	}
}

// grow doubles the atlas, keeping every packed rectangle at its position.
func (a *Atlas) grow() bool {
	newSize := a.size * 2
	if newSize > a.maxSize {
		return false
	}
	a.log.Info("growing glyph atlas", "label", a.label, "from", a.size, "to", newSize)

	backing := image.NewAlpha(image.Rect(0, 0, int(newSize), int(newSize)))
	for y := 0; y < int(a.size); y++ {
		copy(
			backing.Pix[y*backing.Stride:y*backing.Stride+int(a.size)],
			a.backing.Pix[y*a.backing.Stride:y*a.backing.Stride+int(a.size)],
		)
	}
	a.backing = backing
	a.size = newSize
	a.packer.grow(newSize, newSize)

	if a.view != nil {
		a.view.Release()
	}
	if a.texture != nil {
		a.texture.Release()
	}
	a.texture, a.view = a.createTexture()
	a.upload(a.backing, 0, 0)
	a.generation++
	return true
}

func (a *Atlas) createTexture() (*wgpu.Texture, *wgpu.TextureView) {
	texture := a.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: a.label,
		Size: wgpu.Extent3D{
			Width:              a.size,
			Height:             a.size,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Format:        wgpu.TextureFormatR8Unorm,
	})
	var view *wgpu.TextureView
	if texture != nil {
		view = texture.CreateView(nil)
	}
	return texture, view
}

// blit copies the mask into the CPU backing store at (x, y).
func (a *Atlas) blit(mask *image.Alpha, x, y int) {
	w := mask.Rect.Dx()
	h := mask.Rect.Dy()
	for row := 0; row < h; row++ {
		src := mask.Pix[row*mask.Stride : row*mask.Stride+w]
		dst := a.backing.Pix[(y+row)*a.backing.Stride+x:]
		copy(dst[:w], src)
	}
}

func (a *Atlas) upload(mask *image.Alpha, x, y uint32) {
	a.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  a.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: x, Y: y, Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		mask.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(mask.Stride),
			RowsPerImage: 0,
		},
		&wgpu.Extent3D{
			Width:              uint32(mask.Rect.Dx()),
			Height:             uint32(mask.Rect.Dy()),
			DepthOrArrayLayers: 1,
		},
	)
}
