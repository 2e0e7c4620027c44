// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package octree implements the local 2^D-ary Barnes-Hut tree: an arena of
// owned cells with index children, rebuilt from scratch every time step. The
// tree is realized as a binary split per level, alternating axis by depth
// (geom.AxisAt); every Dims consecutive levels together form one canonical
// octant subdivision, matching the single-axis-per-level boxes the ORB
// partitioner hands it
package octree

import (
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gosl/utl"
)

// NumChildren is the branching factor at any one tree level
const NumChildren = 2

// NoChild marks an absent child slot in Cell.Children
const NoChild = -1

const noChild = NoChild

// NoBody marks a cell that does not directly hold a single body
const NoBody = -1

const noBody = NoBody

// Cell is one node of the local octree, stored by index in Tree.cells. Box is
// the cell's spatial extent. Mass and Com are the aggregate mass and center of
// mass of everything under the cell (itself, if it is a body leaf). Children
// holds arena indices, noChild where absent. BodyId is the external id of the
// body this cell holds directly, or noBody if the cell is empty or internal.
// Split is the coordinate, along geom.AxisAt(depth) at this cell's depth,
// that separates Children[0] from Children[1]; meaningful only once the cell
// has children
type Cell struct {
	Box      geom.Box
	Mass     float64
	Com      []float64
	Children [NumChildren]int
	BodyId   int
	Split    float64
}

func newCell(box geom.Box) Cell {
	c := Cell{Box: box, BodyId: noBody}
	c.Com = utl.DblVals(geom.Dims, 0)
	for k := range c.Children {
		c.Children[k] = noChild
	}
	return c
}

// HasChildren reports whether the cell is internal (a childless cell is
// either empty, a single-body leaf, or an aggregate summary)
func (c *Cell) HasChildren() bool {
	for _, ch := range c.Children {
		if ch != noChild {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the cell has no children, holds no body, and
// carries no aggregate mass: a skeleton cell seeded ahead of its contents
func (c *Cell) IsEmpty() bool {
	return !c.HasChildren() && c.BodyId == noBody && c.Mass == 0
}

// IsBodyLeaf reports whether the cell directly holds exactly one body
func (c *Cell) IsBodyLeaf() bool {
	return !c.HasChildren() && c.BodyId != noBody
}

// IsAggregate reports whether the cell is a childless summary carrying a
// pre-aggregated mass and center of mass rather than a single body: either
// a pruned subtree collapsed by Tree.PruneTree, or a cell received from a
// partner rank via AllocExternal/InsertCell that has no further children
// attached in this tree
func (c *Cell) IsAggregate() bool {
	return !c.HasChildren() && c.BodyId == noBody && c.Mass > 0
}
