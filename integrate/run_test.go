// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"testing"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/inp"
	"github.com/cpmech/gosl/chk"
)

func Test_run01(tst *testing.T) {

	chk.PrintTitle("run01: log2 accepts only powers of two")

	chk.IntAssert(log2(1), 0)
	chk.IntAssert(log2(4), 2)
	if log2(5) != -1 {
		tst.Errorf("log2(5) must report -1")
	}
}

func Test_run02(tst *testing.T) {

	chk.PrintTitle("run02: allReduce is a no-op for a single rank")

	v := []float64{1, 2, 3}
	out := allReduce(v, 0, 1, func(a, b float64) float64 { return a + b })
	chk.Vector(tst, "reduced", 1e-15, out, v)
}

func Test_run03(tst *testing.T) {

	chk.PrintTitle("run03: reduceGlobalBox encloses every local body with padding on the upper face")

	local := []*body.Body{
		body.New(0, []float64{-1, 2, 0}, []float64{0, 0, 0}, 1),
		body.New(1, []float64{3, -2, 5}, []float64{0, 0, 0}, 1),
	}
	box := reduceGlobalBox(local, 0, 1)
	for _, b := range local {
		if !box.Contains(b.Pos) {
			tst.Errorf("reduced box must contain every local body; failed for %v", b.Pos)
		}
	}
	chk.Scalar(tst, "lo[0]", 1e-15, box.Lo[0], -1)
	chk.Scalar(tst, "lo[1]", 1e-15, box.Lo[1], -2)
	chk.Scalar(tst, "hi[0] before padding", 1e-6, box.Hi[0], 3)
}

func Test_run04(tst *testing.T) {

	chk.PrintTitle("run04: advance integrates one leapfrog step and sinks out-of-range bodies")

	cfg := &inp.Config{Dt: 1.0}
	box := geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4})

	kept := body.New(0, []float64{1, 1, 1}, []float64{0, 0, 0}, 1)
	escapes := body.New(1, []float64{3.9, 1, 1}, []float64{10, 0, 0}, 1)
	local := []*body.Body{kept, escapes}
	forces := [][]float64{{0, 0, 0}, {0, 0, 0}}

	newKept, newRemoved := advance(cfg, box, local, forces, nil)
	if len(newKept) != 1 || newKept[0].Id != 0 {
		tst.Fatalf("expected body 0 to remain; got %d kept", len(newKept))
	}
	if len(newRemoved) != 1 || newRemoved[0].Id != 1 {
		tst.Fatalf("expected body 1 to be sunk as out-of-range; got %d removed", len(newRemoved))
	}
	chk.Scalar(tst, "kept body unmoved (zero force, zero velocity)", 1e-15, kept.Pos[0], 1)
}
