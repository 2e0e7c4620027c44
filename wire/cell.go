// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package wire implements the MPI-cell wire encoding exchanged between ORB
// partners: a flattened pre-order enumeration of a subtree with a parent
// index per entry, self-describing from a single contiguous float64 buffer.
//
// Field layout mirrors a classic MPI-cell struct (min_bounds, max_bounds,
// m, rm, parent_idx) one-for-one, packed into a plain float64 slice instead
// of a hand-rolled MPI_Type_create_struct derived datatype
package wire

import (
	"math"

	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gosl/chk"
)

// FloatsPerCell is the number of float64 slots one cell occupies in the wire
// buffer: Dims (lo) + Dims (hi) + 1 (mass) + Dims (com) + 1 (parent index,
// stored as a float64 and rounded back to int on decode)
const FloatsPerCell = 3*geom.Dims + 2

// Encode flattens a pre-order cell list (box, mass, com, parent) into a
// contiguous float64 buffer ready for mpi.Send
func Encode(boxes []geom.Box, mass []float64, com [][]float64, parent []int) []float64 {
	n := len(boxes)
	buf := make([]float64, n*FloatsPerCell)
	for i := 0; i < n; i++ {
		off := i * FloatsPerCell
		copy(buf[off:off+geom.Dims], boxes[i].Lo)
		copy(buf[off+geom.Dims:off+2*geom.Dims], boxes[i].Hi)
		buf[off+2*geom.Dims] = mass[i]
		copy(buf[off+2*geom.Dims+1:off+3*geom.Dims+1], com[i])
		buf[off+3*geom.Dims+1] = float64(parent[i])
	}
	return buf
}

// Decode expands a buffer produced by Encode back into per-cell box, mass,
// center-of-mass and parent index slices. n is the number of cells, agreed
// with the sender via the length header exchanged before this buffer
func Decode(buf []float64, n int) (boxes []geom.Box, mass []float64, com [][]float64, parent []int, err error) {
	if len(buf) != n*FloatsPerCell {
		return nil, nil, nil, nil, chk.Err("wire: unexpected buffer size: got %d floats, want %d for %d cells", len(buf), n*FloatsPerCell, n)
	}
	boxes = make([]geom.Box, n)
	mass = make([]float64, n)
	com = make([][]float64, n)
	parent = make([]int, n)
	for i := 0; i < n; i++ {
		off := i * FloatsPerCell
		lo := append([]float64{}, buf[off:off+geom.Dims]...)
		hi := append([]float64{}, buf[off+geom.Dims:off+2*geom.Dims]...)
		boxes[i] = geom.NewBox(lo, hi)
		mass[i] = buf[off+2*geom.Dims]
		com[i] = append([]float64{}, buf[off+2*geom.Dims+1:off+3*geom.Dims+1]...)
		parent[i] = int(math.Round(buf[off+3*geom.Dims+1]))
		if parent[i] < -1 || parent[i] >= n {
			return nil, nil, nil, nil, chk.Err("wire: parent index %d out of range for %d received cells", parent[i], n)
		}
	}
	return
}
