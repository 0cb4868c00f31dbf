// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shapes

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// TransformID is an opaque handle to a model matrix stored in a
// TransformArena. Shapes that share a handle share one transform instance,
// and the renderer groups them into one batch. Two handles compare equal
// only if they were issued by the same Alloc call; value-equal matrices
// allocated separately stay distinct.
type TransformID int32

// NoTransform means no model transform; the renderer draws such shapes with
// the view-projection matrix alone. It is not a valid arena index.
const NoTransform TransformID = -1

// TransformArena owns the model matrices shared between shapes. Handles stay
// valid for the lifetime of the arena; matrices may be updated in place
// between frames without invalidating handles.
type TransformArena struct {
	mats []math32.Matrix4
}

func NewTransformArena() *TransformArena {
	return &TransformArena{}
}

// Alloc stores m and issues a new handle for it.
func (a *TransformArena) Alloc(m math32.Matrix4) TransformID {
	a.mats = append(a.mats, m)
	return TransformID(len(a.mats) - 1)
}

// Identity issues a handle to a fresh identity matrix.
func (a *TransformArena) Identity() TransformID {
	var m math32.Matrix4
	m.SetIdentity()
	return a.Alloc(m)
}

// Get returns the matrix for id. The pointer stays valid until the next
// Alloc.
func (a *TransformArena) Get(id TransformID) *math32.Matrix4 {
	if id < 0 || int(id) >= len(a.mats) {
		panic(fmt.Sprintf("invalid transform handle %d", id))
	}
	return &a.mats[id]
}

// Set replaces the matrix for id, leaving the handle itself valid.
func (a *TransformArena) Set(id TransformID, m math32.Matrix4) {
	*a.Get(id) = m
}

// Len returns the number of issued handles.
func (a *TransformArena) Len() int {
	return len(a.mats)
}
