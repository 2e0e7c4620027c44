// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom implements the axis-aligned box and D-vector primitives
// shared by the ORB partitioner, the local octree and the force kernel
package geom

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
)

// Dims is the number of spatial dimensions. It is compile-time fixed, as
// required by the domain model (2 or 3); 3 is the convention used throughout
const Dims = 3

// Box is an axis-aligned box given by its lower and upper corners. Containment
// is half-open: lo[c] <= p[c] < hi[c] for every axis c, so shared faces
// between sibling boxes are never double-counted
type Box struct {
	Lo []float64 // [Dims] lower corner
	Hi []float64 // [Dims] upper corner
}

// NewBox allocates a Box with the given corners; lo and hi are cloned
func NewBox(lo, hi []float64) (o Box) {
	o.Lo = la.VecClone(lo)
	o.Hi = la.VecClone(hi)
	return
}

// Contains tells whether p lies within o under the half-open convention
func (o Box) Contains(p []float64) bool {
	for c := 0; c < Dims; c++ {
		if p[c] < o.Lo[c] || p[c] >= o.Hi[c] {
			return false
		}
	}
	return true
}

// ContainsBox tells whether sub lies entirely within o (closed on sub's side,
// since a sub-box produced by bisection shares faces with its parent)
func (o Box) ContainsBox(sub Box) bool {
	for c := 0; c < Dims; c++ {
		if sub.Lo[c] < o.Lo[c] || sub.Hi[c] > o.Hi[c] {
			return false
		}
	}
	return true
}

// Intersects tells whether o and other share any volume
func (o Box) Intersects(other Box) bool {
	for c := 0; c < Dims; c++ {
		if o.Hi[c] <= other.Lo[c] || other.Hi[c] <= o.Lo[c] {
			return false
		}
	}
	return true
}

// MaxSide returns the largest side length of o, used by the BH opening test
func (o Box) MaxSide() (s float64) {
	for c := 0; c < Dims; c++ {
		d := o.Hi[c] - o.Lo[c]
		if d > s {
			s = d
		}
	}
	return
}

// AxisAt returns the split axis used at tree depth d (root is depth 0),
// cycling through the D coordinate axes one per level exactly as the ORB
// partitioner does (see orb.Partition); every Dims consecutive levels of
// this alternation realize one full 2^Dims octant subdivision
func AxisAt(d int) int {
	return d % Dims
}

// SplitAt returns the lower and upper halves of o when bisected at coordinate
// s along axis, i.e. the boxes used by one ORB level
func (o Box) SplitAt(axis int, s float64) (lower, upper Box) {
	lower = NewBox(o.Lo, o.Hi)
	upper = NewBox(o.Lo, o.Hi)
	lower.Hi[axis] = s
	upper.Lo[axis] = s
	return
}

// Equals reports whether o and other coincide within tol on every corner
func (o Box) Equals(other Box, tol float64) bool {
	for c := 0; c < Dims; c++ {
		if abs(o.Lo[c]-other.Lo[c]) > tol || abs(o.Hi[c]-other.Hi[c]) > tol {
			return false
		}
	}
	return true
}

// Dist returns the Euclidean distance between two D-vectors
func Dist(a, b []float64) float64 {
	d := utl.DblVals(Dims, 0)
	for c := 0; c < Dims; c++ {
		d[c] = a[c] - b[c]
	}
	return la.VecNorm(d)
}

// CheckDims panics if v does not have exactly Dims components; used at the
// boundary where externally supplied vectors enter the core
func CheckDims(name string, v []float64) {
	if len(v) != Dims {
		chk.Panic("%s must have %d components; got %d", name, Dims, len(v))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
