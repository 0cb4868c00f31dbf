// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package mmath provides small numeric helpers shared by the GPU-facing
// packages.
package mmath

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// AlignUp rounds len up to the next multiple of alignment. alignment has to
// be a power of two.
func AlignUp[T constraints.Integer](len T, alignment T) T {
	return (len + alignment - 1) & -alignment
}

// SizeClass rounds x up to a bucket size with numBits significant bits, so
// that buffers of similar size land in the same pool bucket.
func SizeClass(x uint64, numBits uint32) uint64 {
	if x > 1<<numBits {
		a := bits.LeadingZeros64(x - 1)
		b := (x - 1) | (((1<<64 - 1) / 2) >> numBits) >> a
		return b + 1
	} else {
		return 1 << numBits
	}
}

// NextPow2 returns the smallest power of two that is >= x, with a minimum
// of 1.
func NextPow2(x uint32) uint32 {
	if x <= 1 {
		return 1
	}
	return 1 << (32 - bits.LeadingZeros32(x-1))
}
