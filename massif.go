// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package massif renders 2D user interfaces by batching shapes into as few
// GPU draw calls as possible.
//
// Each frame, the caller hands the renderer a list of drawables: quads,
// shaped glyph runs, and external textures. Prepare groups them by pipeline
// kind and by the identity of their transform handle, uploads the vertex
// data, and RenderAndPresent draws one indexed draw call per batch, bound
// to a per-batch camera matrix via dynamic uniform offsets.
//
// Glyphs are rasterized on the CPU, either as plain coverage masks or as
// signed distance fields, and packed into growable atlas textures. Shapes
// that share a transform handle land in one batch; callers control
// batching granularity by sharing handles.
package massif
