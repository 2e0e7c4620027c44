// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bodyio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/octree"
	"github.com/cpmech/gosl/chk"
)

func Test_fileio01(tst *testing.T) {

	chk.PrintTitle("fileio01: WriteBodies/ReadBodies round trip (gob)")

	dir := tst.TempDir()
	base := filepath.Join(dir, "positions")

	live := []*body.Body{
		body.New(0, []float64{1, 2, 3}, []float64{0.1, 0.2, 0.3}, 5),
		body.New(1, []float64{4, 5, 6}, []float64{0, 0, 0}, 7),
	}
	gone := []*body.Body{
		body.New(2, []float64{100, 100, 100}, []float64{0, 0, 0}, body.OutOfRangeMass),
	}

	if err := WriteBodies(base, "gob", 0, live, gone, true); err != nil {
		tst.Fatalf("WriteBodies failed: %v", err)
	}
	out, err := ReadBodies(base, "gob", 0)
	if err != nil {
		tst.Fatalf("ReadBodies failed: %v", err)
	}
	chk.IntAssert(len(out), len(live)+len(gone))
	chk.Vector(tst, "pos[0]", 1e-15, out[0].Pos, live[0].Pos)
	chk.Vector(tst, "vel[0]", 1e-15, out[0].Vel, live[0].Vel)
	if !out[2].IsOutOfRange() {
		tst.Errorf("expected the third record to report out-of-range")
	}
}

func Test_fileio02(tst *testing.T) {

	chk.PrintTitle("fileio02: WriteBodies/ReadBodies round trip (json) and overwrite semantics")

	dir := tst.TempDir()
	base := filepath.Join(dir, "positions")

	b0 := []*body.Body{body.New(0, []float64{1, 1, 1}, []float64{0, 0, 0}, 1)}
	if err := WriteBodies(base, "json", 0, b0, nil, true); err != nil {
		tst.Fatalf("first WriteBodies failed: %v", err)
	}
	b1 := []*body.Body{body.New(1, []float64{2, 2, 2}, []float64{0, 0, 0}, 1)}
	if err := WriteBodies(base, "json", 0, b1, nil, true); err != nil {
		tst.Fatalf("overwrite WriteBodies failed: %v", err)
	}
	out, err := ReadBodies(base, "json", 0)
	if err != nil {
		tst.Fatalf("ReadBodies failed: %v", err)
	}
	chk.IntAssert(len(out), 1)
	chk.IntAssert(out[0].Id, 1)
}

func Test_fileio03(tst *testing.T) {

	chk.PrintTitle("fileio03: WriteTreeDump emits one line per populated cell")

	dir := tst.TempDir()
	fn := filepath.Join(dir, "tree.txt")

	box := geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4})
	t := octree.NewTree(box, 0.5, 1.0, 0.01)
	b0 := body.New(0, []float64{1, 1, 1}, []float64{0, 0, 0}, 1)
	b1 := body.New(1, []float64{3, 3, 3}, []float64{0, 0, 0}, 2)
	t.InsertBody(b0)
	t.InsertBody(b1)

	if err := WriteTreeDump(fn, t, true); err != nil {
		tst.Fatalf("WriteTreeDump failed: %v", err)
	}
	raw, err := os.ReadFile(fn)
	if err != nil {
		tst.Fatalf("failed to read tree dump: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != t.NumCells() {
		tst.Errorf("expected one dumped line per populated cell; got %d lines for %d cells", len(lines), t.NumCells())
	}
}

func Test_fileio04(tst *testing.T) {

	chk.PrintTitle("fileio04: WriteTreeSize appends one line per call")

	dir := tst.TempDir()
	fn := filepath.Join(dir, "tree_size.txt")

	box := geom.NewBox([]float64{0, 0, 0}, []float64{4, 4, 4})
	t := octree.NewTree(box, 0.5, 1.0, 0.01)
	t.InsertBody(body.New(0, []float64{1, 1, 1}, []float64{0, 0, 0}, 1))

	if err := WriteTreeSize(fn, t, true); err != nil {
		tst.Fatalf("first WriteTreeSize failed: %v", err)
	}
	if err := WriteTreeSize(fn, t, false); err != nil {
		tst.Fatalf("appending WriteTreeSize failed: %v", err)
	}
	raw, err := os.ReadFile(fn)
	if err != nil {
		tst.Fatalf("failed to read tree-size file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	chk.IntAssert(len(lines), 2)
}
