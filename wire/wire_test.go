// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/octree"
	"github.com/cpmech/gosl/chk"
)

func Test_wire01(tst *testing.T) {

	chk.PrintTitle("wire01: Encode/Decode round trip")

	boxes := []geom.Box{
		geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4}),
		geom.NewBox([]float64{0, 0, 0}, []float64{2, 4, 4}),
	}
	mass := []float64{3, 1}
	com := [][]float64{{1, 1, 1}, {0.5, 0.5, 0.5}}
	parent := []int{-1, 0}

	buf := Encode(boxes, mass, com, parent)
	chk.IntAssert(len(buf), len(boxes)*FloatsPerCell)

	gotBoxes, gotMass, gotCom, gotParent, err := Decode(buf, len(boxes))
	if err != nil {
		tst.Fatalf("Decode failed: %v", err)
	}
	for i := range boxes {
		if !gotBoxes[i].Equals(boxes[i], 1e-15) {
			tst.Errorf("box %d round trip mismatch: got %v want %v", i, gotBoxes[i], boxes[i])
		}
		chk.Vector(tst, "com", 1e-15, gotCom[i], com[i])
	}
	chk.Vector(tst, "mass", 1e-15, gotMass, mass)
	chk.IntAssert(gotParent[0], parent[0])
	chk.IntAssert(gotParent[1], parent[1])
}

func Test_wire02(tst *testing.T) {

	chk.PrintTitle("wire02: Decode rejects a malformed buffer")

	_, _, _, _, err := Decode(make([]float64, 3), 2)
	if err == nil {
		tst.Errorf("expected an error for a buffer of the wrong length")
	}

	boxes := []geom.Box{geom.NewBox([]float64{0, 0, 0}, []float64{1, 1, 1})}
	buf := Encode(boxes, []float64{1}, [][]float64{{0, 0, 0}}, []int{5})
	_, _, _, _, err = Decode(buf, 1)
	if err == nil {
		tst.Errorf("expected an error for an out-of-range parent index")
	}
}

func Test_wire03(tst *testing.T) {

	chk.PrintTitle("wire03: Reconstruct grafts a sent subtree into a seeded skeleton")

	box := geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4})
	src := octree.NewTree(box, 0.5, 1.0, 0.01)
	b0 := body.New(0, []float64{1, 1, 1}, []float64{0, 0, 0}, 1)
	b1 := body.New(1, []float64{1, 1, 3}, []float64{0, 0, 0}, 2)
	src.InsertBody(b0)
	src.InsertBody(b1)

	lower, upper := box.SplitAt(0, 2.0)
	sub := src.CellsToSend(lower)
	buf := Encode(sub.Box, sub.Mass, sub.Com, sub.Parent)
	boxes, mass, com, parent, err := Decode(buf, len(sub.Box))
	if err != nil {
		tst.Fatalf("Decode failed: %v", err)
	}

	dst := octree.NewTree(box, 0.5, 1.0, 0.01)
	if err := dst.InsertEmptyCell(upper); err != nil {
		tst.Fatalf("seeding skeleton failed: %v", err)
	}
	if err := Reconstruct(dst, boxes, mass, com, parent); err != nil {
		tst.Fatalf("Reconstruct failed: %v", err)
	}

	root := dst.Cell(dst.Root())
	chk.Scalar(tst, "reconstructed root mass", 1e-15, root.Mass, 3)
}
