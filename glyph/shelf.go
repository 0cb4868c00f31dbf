// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

// shelfPacker packs rectangles into horizontal shelves. Each shelf has the
// height of its tallest item; items are placed left to right until a shelf
// is full, then a new shelf opens below. Placements are never moved, which
// lets the atlas grow without relocating existing rectangles.
type shelfPacker struct {
	width   uint32
	height  uint32
	padding uint32
	shelves []shelf
}

type shelf struct {
	y      uint32
	height uint32
	x      uint32
}

func newShelfPacker(width, height, padding uint32) shelfPacker {
	return shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
	}
}

// alloc finds space for a w×h rectangle. ok is false when the packer is
// full at its current dimensions.
func (p *shelfPacker) alloc(w, h uint32) (x, y uint32, ok bool) {
	pw := w + p.padding
	ph := h + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+pw > p.width {
			continue
		}
		if h > s.height {
			// Tallest-so-far item. The last shelf may still grow downward.
			if i == len(p.shelves)-1 && s.y+ph <= p.height {
				s.height = h
				x, y = s.x, s.y
				s.x += pw
				return x, y, true
			}
			continue
		}
		x, y = s.x, s.y
		s.x += pw
		return x, y, true
	}

	var newY uint32
	if len(p.shelves) > 0 {
		last := p.shelves[len(p.shelves)-1]
		newY = last.y + last.height + p.padding
	}
	if newY+ph > p.height || pw > p.width {
		return 0, 0, false
	}
	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: pw})
	return 0, newY, true
}

// grow enlarges the packer's dimensions in place. Existing shelves keep
// their positions; new space opens to the right of and below them.
func (p *shelfPacker) grow(width, height uint32) {
	if width > p.width {
		p.width = width
	}
	if height > p.height {
		p.height = height
	}
}
