// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package orb implements Orthogonal Recursive Bisection: the distributed
// partitioner that splits the global body set across P ranks along
// alternating axes, one bisection per level, down to one sub-box per rank
package orb

import (
	"math"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/xchg"
	"github.com/cpmech/gosl/chk"
)

// Step is the ORB descriptor for one level of the local rank's recursion,
// outermost first
type Step struct {
	Bound      geom.Box // the sub-box retained locally at this level
	OtherBound geom.Box // the sub-box handed to the partner
	Partner    int  // rank id on the other side of this bisection
	Initiator  bool // true iff this rank's id is numerically less than Partner's
}

// bitsPerBody is the wire width of one Body during redistribution: id, pos,
// vel, mass, work
const bitsPerBody = 2*geom.Dims + 3

// Partition recursively bisects bodies across the P ranks [0,P), returning
// the ORB descriptors (outermost level first), the final local box, and the
// body set retained locally after all redistributions. firstPass selects the
// uniform weight=1 fallback for the very first call, before any per-body
// work timing exists to balance on
func Partition(bodies []*body.Body, globalBox geom.Box, rank, size int, firstPass bool) (steps []Step, localBox geom.Box, local []*body.Body, err error) {
	levels := log2(size)
	if levels < 0 {
		return nil, geom.Box{}, nil, chk.Err("orb: number of ranks (%d) is not a power of two", size)
	}
	for _, b := range bodies {
		if !globalBox.Contains(b.Pos) {
			return nil, geom.Box{}, nil, chk.Err("orb: body %d at %v lies outside the global box", b.Id, b.Pos)
		}
	}

	box := globalBox
	set := bodies
	groupLo, groupHi := 0, size-1

	for k := 0; k < levels; k++ {
		axis := geom.AxisAt(k)
		half := (groupHi - groupLo + 1) / 2
		localRank := rank - groupLo
		partnerLocal := localRank ^ half
		partner := groupLo + partnerLocal
		inLower := localRank < half

		s, splitErr := weightedSplit(set, box, axis, groupLo, groupHi, rank, firstPass)
		if splitErr != nil {
			return nil, geom.Box{}, nil, splitErr
		}

		lowerBox, upperBox := box.SplitAt(axis, s)
		var myBox, otherBox geom.Box
		if inLower {
			myBox, otherBox = lowerBox, upperBox
		} else {
			myBox, otherBox = upperBox, lowerBox
		}

		keep, send := splitBodies(set, axis, s, inLower)
		recvBuf := xchg.Exchange(encodeBodies(send), partner, rank < partner)
		set = append(keep, decodeBodies(recvBuf)...)

		steps = append(steps, Step{Bound: myBox, OtherBound: otherBox, Partner: partner, Initiator: rank < partner})

		box = myBox
		if inLower {
			groupHi = groupLo + half - 1
		} else {
			groupLo = groupLo + half
		}
	}
	return steps, box, set, nil
}

func log2(n int) int {
	if n < 1 {
		return -1
	}
	levels := 0
	for n > 1 {
		if n%2 != 0 {
			return -1
		}
		n /= 2
		levels++
	}
	return levels
}

func weight(b *body.Body, uniform bool) float64 {
	if uniform {
		return 1
	}
	return b.Work
}

// weightedSplit finds, by bisection on the coordinate, the axis split s that
// divides the active group's total weight as evenly as possible, ties broken
// towards the lower coordinate
func weightedSplit(set []*body.Body, box geom.Box, axis, groupLo, groupHi, rank int, uniform bool) (float64, error) {
	lo, hi := box.Lo[axis], box.Hi[axis]
	localTotal := 0.0
	for _, b := range set {
		localTotal += weight(b, uniform)
	}
	total := groupAllReduceSum(localTotal, groupLo, groupHi, rank)
	if total <= 0 {
		// no mass anywhere in the group: split the box geometrically
		return 0.5 * (lo + hi), nil
	}
	target := total / 2
	const iters = 60
	for i := 0; i < iters; i++ {
		mid := 0.5 * (lo + hi)
		localBelow := 0.0
		for _, b := range set {
			if b.Pos[axis] < mid {
				localBelow += weight(b, uniform)
			}
		}
		below := groupAllReduceSum(localBelow, groupLo, groupHi, rank)
		if below < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil
}

// groupAllReduceSum sums val across the contiguous rank range [groupLo,
// groupHi] (a power-of-two sized active ORB group) using recursive-doubling
// point-to-point exchanges, since the pack establishes no sub-communicator
// surface for gosl/mpi beyond plain Send/Recv (see DESIGN.md)
func groupAllReduceSum(val float64, groupLo, groupHi, rank int) float64 {
	m := groupHi - groupLo + 1
	local := rank - groupLo
	sum := val
	for d := 1; d < m; d *= 2 {
		partner := groupLo + (local ^ d)
		recv := xchg.Exchange([]float64{sum}, partner, rank < partner)
		sum += recv[0]
	}
	return sum
}

func splitBodies(set []*body.Body, axis int, s float64, inLower bool) (keep, send []*body.Body) {
	for _, b := range set {
		onLower := b.Pos[axis] < s
		if onLower == inLower {
			keep = append(keep, b)
		} else {
			send = append(send, b)
		}
	}
	return
}

func encodeBodies(bs []*body.Body) []float64 {
	buf := make([]float64, 0, len(bs)*bitsPerBody)
	for _, b := range bs {
		buf = append(buf, float64(b.Id))
		buf = append(buf, b.Pos...)
		buf = append(buf, b.Vel...)
		buf = append(buf, b.Mass, b.Work)
	}
	return buf
}

func decodeBodies(buf []float64) []*body.Body {
	n := len(buf) / bitsPerBody
	out := make([]*body.Body, 0, n)
	for i := 0; i < n; i++ {
		off := i * bitsPerBody
		id := int(math.Round(buf[off]))
		pos := append([]float64{}, buf[off+1:off+1+geom.Dims]...)
		vel := append([]float64{}, buf[off+1+geom.Dims:off+1+2*geom.Dims]...)
		mass := buf[off+1+2*geom.Dims]
		work := buf[off+2+2*geom.Dims]
		b := body.New(id, pos, vel, mass)
		b.Work = work
		out = append(out, b)
	}
	return out
}
