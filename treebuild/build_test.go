// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package treebuild

import (
	"testing"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gosl/chk"
)

// Test_build01 exercises Build with no ORB steps (the single-rank case, where
// orb.Partition never produces a Step), so the entire per-level
// collect/exchange/graft/prune loop is skipped and Build reduces to seeding
// nothing plus a plain local insertion — safe to run without an MPI runtime.
func Test_build01(tst *testing.T) {

	chk.PrintTitle("build01: Build with no ORB steps matches a plain local octree")

	box := geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4})
	bodies := []*body.Body{
		body.New(0, []float64{1, 1, 1}, []float64{0, 0, 0}, 1),
		body.New(1, []float64{3, 3, 3}, []float64{0, 0, 0}, 3),
	}

	t, err := Build(bodies, nil, box, 0.5, 1.0, 0.01)
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}

	root := t.Cell(t.Root())
	chk.Scalar(tst, "root.Mass", 1e-15, root.Mass, 4)
	expectedCom := []float64{(1*1 + 3*3) / 4.0, (1*1 + 3*3) / 4.0, (1*1 + 3*3) / 4.0}
	chk.Vector(tst, "root.Com", 1e-15, root.Com, expectedCom)
}

func Test_build02(tst *testing.T) {

	chk.PrintTitle("build02: Build rejects a body lying outside the global box")

	box := geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4})
	bodies := []*body.Body{
		body.New(0, []float64{10, 10, 10}, []float64{0, 0, 0}, 1),
	}
	_, err := Build(bodies, nil, box, 0.5, 1.0, 0.01)
	if err == nil {
		tst.Errorf("expected an error for a body outside the global box")
	}
}

func Test_build03(tst *testing.T) {

	chk.PrintTitle("build03: Build with no bodies and no steps leaves a single empty root")

	box := geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4})
	t, err := Build(nil, nil, box, 0.5, 1.0, 0.01)
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	chk.IntAssert(t.NumCells(), 1)
	if !t.Cell(t.Root()).IsEmpty() {
		tst.Errorf("expected an empty root cell")
	}
}
