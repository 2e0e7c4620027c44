// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package octree

import (
	"math"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// boxTol is the tolerance used when comparing boxes and split coordinates for
// structural equality (ORB splits and midpoint bisections are exact in
// floating point, but a little slack keeps the comparisons robust)
const boxTol = 1e-9

// Tree is a local Barnes-Hut octree: an arena of cells spanning Box, rebuilt
// from scratch every step. Theta, G and RSoft parameterize force evaluation.
//
// Every cell splits along a single axis, geom.AxisAt(depth), the same
// alternating schedule the ORB partitioner uses; every Dims consecutive
// levels together realize one canonical 2^Dims octant subdivision of an
// ancestor. Two kinds of split coordinate occur: the ORB-seeded frontier
// (levels 0..log2(P)-1, one authoritative weighted boundary per level,
// installed by InsertEmptyCell/InsertCell) and everything below it (split at
// the cell's own geometric midpoint, the same rule InsertBody and a graft
// reconstruction both apply independently and so agree on deterministically)
type Tree struct {
	cells []Cell
	Box   geom.Box
	Theta float64
	G     float64
	RSoft float64
}

// NewTree allocates a tree with a single empty root cell spanning box
func NewTree(box geom.Box, theta, g, rSoft float64) (o *Tree) {
	o = &Tree{Box: box, Theta: theta, G: g, RSoft: rSoft}
	o.cells = []Cell{newCell(box)}
	return
}

// NumCells returns the number of cells currently in the arena, used for the
// tree-size report
func (o *Tree) NumCells() int {
	return len(o.cells)
}

// Cell returns the cell at arena index idx; used by the force walk and by
// the tree-dump writer
func (o *Tree) Cell(idx int) *Cell {
	return &o.cells[idx]
}

// Root is always arena index 0
func (o *Tree) Root() int {
	return 0
}

func (o *Tree) alloc(box geom.Box) int {
	o.cells = append(o.cells, newCell(box))
	return len(o.cells) - 1
}

// sideFromSplit reports which half of a cell with the given split coordinate
// on axis contains box, and an error if box straddles the split
func sideFromSplit(split float64, axis int, box geom.Box) (side int, err error) {
	switch {
	case box.Hi[axis] <= split+boxTol:
		return 0, nil
	case box.Lo[axis] >= split-boxTol:
		return 1, nil
	}
	return 0, chk.Err("box straddles split %g on axis %d", split, axis)
}

// locateWeighted determines the side and, for a cell not yet split, the
// split coordinate to install while seeding the ORB skeleton: box's own
// boundary on axis is authoritative, since it comes from a load-balanced
// split rather than the cell's geometric midpoint
func locateWeighted(c *Cell, axis int, box geom.Box) (side int, split float64, err error) {
	if c.HasChildren() {
		side, err = sideFromSplit(c.Split, axis, box)
		return side, c.Split, err
	}
	switch {
	case math.Abs(box.Lo[axis]-c.Box.Lo[axis]) <= boxTol:
		return 0, box.Hi[axis], nil
	case math.Abs(box.Hi[axis]-c.Box.Hi[axis]) <= boxTol:
		return 1, box.Lo[axis], nil
	}
	return 0, 0, chk.Err("box does not align with either side of cell box %v on axis %d", c.Box, axis)
}

// locateCanonical determines the side and, for a cell not yet split, the
// split coordinate to install while grafting cells below the ORB-seeded
// frontier: the geometric midpoint is used, the same rule InsertBody applies
// when subdividing a leaf, so a reconstruction on one rank lands exactly
// where the equivalent subdivision landed on the rank that sent it
func locateCanonical(c *Cell, axis int, box geom.Box) (side int, split float64, err error) {
	if c.HasChildren() {
		side, err = sideFromSplit(c.Split, axis, box)
		return side, c.Split, err
	}
	split = 0.5 * (c.Box.Lo[axis] + c.Box.Hi[axis])
	side, err = sideFromSplit(split, axis, box)
	return side, split, err
}

// InsertEmptyCell seeds the path of ancestor cells down to box, creating any
// missing intermediate cells as empty skeleton cells. box must be exactly
// one level below the deepest cell already seeded on this path (the
// treebuild driver calls this once per ORB level, outermost first, so this
// always holds); this is how the local tree pre-seeds the ORB-retained
// sub-boxes so grafted subtrees attach correctly later
func (o *Tree) InsertEmptyCell(box geom.Box) error {
	cur := o.Root()
	depth := 0
	for {
		c := &o.cells[cur]
		if c.Box.Equals(box, boxTol) {
			return nil
		}
		axis := geom.AxisAt(depth)
		side, split, err := locateWeighted(c, axis, box)
		if err != nil {
			return chk.Err("insert_empty_cell: cell %d at depth %d: %v", cur, depth, err)
		}
		if !c.HasChildren() {
			c.Split = split
		}
		child := c.Children[side]
		if child == noChild {
			lower, upper := c.Box.SplitAt(axis, c.Split)
			childBox := lower
			if side == 1 {
				childBox = upper
			}
			child = o.alloc(childBox)
			// alloc may have grown the arena, leaving c pointing at the old one
			o.cells[cur].Children[side] = child
		}
		cur = child
		depth++
	}
}

// InsertBody inserts b into the tree, subdividing leaves as needed, and
// updates mass/center-of-mass on every ancestor on the way back up
func (o *Tree) InsertBody(b *body.Body) error {
	if !o.Box.Contains(b.Pos) {
		return chk.Err("insert_body: body %d at %v lies outside the tree box", b.Id, b.Pos)
	}
	o.insertBody(o.Root(), 0, b.Id, b.Mass, b.Pos)
	return nil
}

func (o *Tree) insertBody(idx, depth int, id int, mass float64, pos []float64) {
	c := &o.cells[idx]
	axis := geom.AxisAt(depth)
	switch {
	case c.HasChildren():
		side := 0
		if pos[axis] >= c.Split {
			side = 1
		}
		o.insertIntoChild(idx, depth, side, id, mass, pos)
	case c.BodyId == noBody:
		o.makeLeaf(idx, id, mass, pos)
	default:
		// one-body leaf: subdivide at the cell's own midpoint, pushing the
		// incumbent into its own half before recursing with the new body
		incId, incMass, incPos := c.BodyId, c.Mass, c.Com
		c.BodyId = noBody
		c.Split = 0.5 * (c.Box.Lo[axis] + c.Box.Hi[axis])
		s1 := 0
		if incPos[axis] >= c.Split {
			s1 = 1
		}
		o.insertIntoChild(idx, depth, s1, incId, incMass, incPos)
		s2 := 0
		if pos[axis] >= c.Split {
			s2 = 1
		}
		o.insertIntoChild(idx, depth, s2, id, mass, pos)
	}
	o.updateAggregate(idx)
}

func (o *Tree) insertIntoChild(parentIdx, depth, side int, id int, mass float64, pos []float64) {
	parent := &o.cells[parentIdx]
	axis := geom.AxisAt(depth)
	child := parent.Children[side]
	if child == noChild {
		lower, upper := parent.Box.SplitAt(axis, parent.Split)
		childBox := lower
		if side == 1 {
			childBox = upper
		}
		child = o.alloc(childBox)
		// alloc may have grown the arena, leaving parent pointing at the old one
		o.cells[parentIdx].Children[side] = child
		o.makeLeaf(child, id, mass, pos)
		return
	}
	o.insertBody(child, depth+1, id, mass, pos)
}

func (o *Tree) makeLeaf(idx int, id int, mass float64, pos []float64) {
	c := &o.cells[idx]
	c.BodyId = id
	c.Mass = mass
	copy(c.Com, pos)
}

// updateAggregate recomputes Mass/Com of an internal cell from its children;
// leaves, empty cells, and aggregate summaries already carry their own
// (mass, center-of-mass), so this is a no-op for them
func (o *Tree) updateAggregate(idx int) {
	c := &o.cells[idx]
	if !c.HasChildren() {
		return
	}
	mass := 0.0
	com := utl.DblVals(geom.Dims, 0)
	for _, ch := range c.Children {
		if ch == noChild {
			continue
		}
		cc := &o.cells[ch]
		mass += cc.Mass
		for d := 0; d < geom.Dims; d++ {
			com[d] += cc.Mass * cc.Com[d]
		}
	}
	c.Mass = mass
	if mass > 0 {
		for d := 0; d < geom.Dims; d++ {
			com[d] /= mass
		}
	}
	c.Com = com
}

// Subtree is a flattened pre-order enumeration of a set of cells destined for
// a partner rank: Parent[i] is the index within this slice of entry i's
// parent, or -1 if entry i is the root of a (possibly multi-rooted)
// transmitted forest
type Subtree struct {
	Box    []geom.Box
	Mass   []float64
	Com    [][]float64
	Parent []int
}

func (s *Subtree) emit(box geom.Box, mass float64, com []float64, parent int) int {
	me := len(s.Box)
	s.Box = append(s.Box, box)
	s.Mass = append(s.Mass, mass)
	s.Com = append(s.Com, append([]float64{}, com...))
	s.Parent = append(s.Parent, parent)
	return me
}

// CellsToSend collects every cell (at full resolution) whose box lies
// entirely within otherBox, flattened pre-order with parent indices relative
// to the emission so the receiving rank can reconstruct the exact subtree
func (o *Tree) CellsToSend(otherBox geom.Box) (sub Subtree) {
	var walk func(idx, parentEmit int)
	walk = func(idx, parentEmit int) {
		c := &o.cells[idx]
		if !otherBox.Intersects(c.Box) {
			return
		}
		if otherBox.ContainsBox(c.Box) {
			me := sub.emit(c.Box, c.Mass, c.Com, parentEmit)
			for _, ch := range c.Children {
				if ch != noChild {
					walk(ch, me)
				}
			}
			return
		}
		for _, ch := range c.Children {
			if ch != noChild {
				walk(ch, parentEmit)
			}
		}
	}
	walk(o.Root(), -1)
	return
}

// InsertCell attaches an externally-reconstructed subtree (already expanded
// into this tree's arena, rooted at arena index rootIdx with box rootBox)
// under the existing local skeleton cell whose box matches rootBox. An empty
// skeleton cell seeded at the target slot by InsertEmptyCell is replaced; any
// other occupant of the slot is refused with an error. rootBox may
// lie below the ORB-seeded frontier, in which case any missing intermediate
// cells are created at their geometric midpoint (see locateCanonical)
func (o *Tree) InsertCell(rootBox geom.Box, rootIdx int) error {
	var path []int
	cur := o.Root()
	depth := 0
	for {
		c := &o.cells[cur]
		if c.Box.Equals(rootBox, boxTol) {
			return chk.Err("insert_cell: a cell with box %v already exists at index %d", rootBox, cur)
		}
		axis := geom.AxisAt(depth)
		side, split, err := locateCanonical(c, axis, rootBox)
		if err != nil {
			return chk.Err("insert_cell: cell %d at depth %d: %v", cur, depth, err)
		}
		if !c.HasChildren() {
			c.Split = split
		}
		path = append(path, cur)
		lower, upper := c.Box.SplitAt(axis, c.Split)
		sideBox := lower
		if side == 1 {
			sideBox = upper
		}
		if sideBox.Equals(rootBox, boxTol) {
			if occ := c.Children[side]; occ != noChild && !o.cells[occ].IsEmpty() {
				return chk.Err("insert_cell: slot %d of cell %d is already occupied", side, cur)
			}
			c.Children[side] = rootIdx
			for i := len(path) - 1; i >= 0; i-- {
				o.updateAggregate(path[i])
			}
			return nil
		}
		child := c.Children[side]
		if child == noChild {
			child = o.alloc(sideBox)
			// alloc may have grown the arena, leaving c pointing at the old one
			o.cells[cur].Children[side] = child
		}
		cur = child
		depth++
	}
}

// AllocExternal appends a cell built from externally-received data (box,
// mass, center of mass) to the arena and returns its index, without linking
// it under any parent. Used by package wire while reconstructing a received
// subtree before grafting its root(s) via InsertCell
func (o *Tree) AllocExternal(box geom.Box, mass float64, com []float64) int {
	idx := o.alloc(box)
	c := &o.cells[idx]
	c.Mass = mass
	copy(c.Com, com)
	return idx
}

// LinkChild attaches the already-allocated cell at childIdx as the next free
// child slot of the cell at parentIdx. This mirrors the sender's fixed
// pre-order emission discipline: the receiver fills slots in the same order
// the sender visited them, so "first free slot" reconstructs the original
// structure. Returns an error if no slot is free, which signals
// sender/receiver disagreement on child ordering (a protocol error, not
// silently ignored)
func (o *Tree) LinkChild(parentIdx, childIdx int) error {
	p := &o.cells[parentIdx]
	for k := 0; k < NumChildren; k++ {
		if p.Children[k] == noChild {
			p.Children[k] = childIdx
			return nil
		}
	}
	return chk.Err("link_child: cell %d has no free child slot (parent index out of range in received subtree)", parentIdx)
}

// PruneTree collapses any subtree whose box lies entirely outside keepBox
// into a childless aggregate cell, retained as a child of its parent rather
// than unlinked from it: the cell's own (mass, center-of-mass), already
// correct from when the subtree was built or grafted, survives as the
// (M,R) summary the force walk treats as a single point mass. Only the
// collapsed cell's descendants are discarded. Children intersecting keepBox
// are retained in full and recursed into. Must run after grafting received
// cells, since they may themselves extend outside keepBox and need pruning
func (o *Tree) PruneTree(keepBox geom.Box) {
	var clearChildren func(idx int)
	clearChildren = func(idx int) {
		c := &o.cells[idx]
		for k, ch := range c.Children {
			if ch != noChild {
				clearChildren(ch)
			}
			c.Children[k] = noChild
		}
	}
	var walk func(idx int)
	walk = func(idx int) {
		c := &o.cells[idx]
		for _, ch := range c.Children {
			if ch == noChild {
				continue
			}
			if !keepBox.Intersects(o.cells[ch].Box) {
				clearChildren(ch)
				continue
			}
			walk(ch)
		}
	}
	walk(o.Root())
}
