// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_config01(tst *testing.T) {

	chk.PrintTitle("config01: SetDefault fills in the expected defaults")

	var c Config
	c.SetDefault()
	chk.IntAssert(c.Steps, 100)
	chk.Scalar(tst, "dt", 1e-15, c.Dt, 0.005)
	chk.Scalar(tst, "theta", 1e-15, c.Theta, 0.5)
	chk.Scalar(tst, "g", 1e-15, c.G, 0.0001)
	chk.Scalar(tst, "rsoft", 1e-15, c.RSoft, 0.03)
	if c.Encoder != "gob" {
		tst.Errorf("expected default encoder gob, got %q", c.Encoder)
	}
	if !c.ClockRun {
		tst.Errorf("expected ClockRun default true")
	}
}

func Test_config02(tst *testing.T) {

	chk.PrintTitle("config02: PostProcess fills derived fields")

	dir := tst.TempDir()
	var c Config
	c.SetDefault()
	c.DirOut = filepath.Join(dir, "out")
	c.Steps = 50
	c.PostProcess(filepath.Join(dir, "run01.sim"))

	if c.FnameKey != "run01" {
		tst.Errorf("expected FnameKey 'run01', got %q", c.FnameKey)
	}
	chk.IntAssert(c.SampleInterval, c.Steps)
	if _, err := os.Stat(c.DirOut); err != nil {
		tst.Errorf("PostProcess must create DirOut: %v", err)
	}
}

func Test_config03(tst *testing.T) {

	chk.PrintTitle("config03: HasGlobalBox and GlobalBox")

	var c Config
	if c.HasGlobalBox() {
		tst.Errorf("a Config with no box corners must report HasGlobalBox=false")
	}
	c.GlobalBoxLo = []float64{0, 0, 0}
	c.GlobalBoxHi = []float64{4, 4, 4}
	if !c.HasGlobalBox() {
		tst.Errorf("expected HasGlobalBox=true once both corners are set")
	}
	b := c.GlobalBox()
	if !b.Contains([]float64{1, 1, 1}) {
		tst.Errorf("expected the configured box to contain an interior point")
	}
}

func Test_config04(tst *testing.T) {

	chk.PrintTitle("config04: ReadConfig parses JSON and applies defaults")

	dir := tst.TempDir()
	fn := filepath.Join(dir, "run01.sim")
	const data = `{"steps": 10, "dt": 0.01, "theta": 0.6, "g": 1.0, "rsoft": 0.05, "dirout": "` + dir + `"}`
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		tst.Fatalf("failed to write test input: %v", err)
	}

	c, err := ReadConfig(fn)
	if err != nil {
		tst.Fatalf("ReadConfig failed: %v", err)
	}
	chk.IntAssert(c.Steps, 10)
	chk.Scalar(tst, "dt", 1e-15, c.Dt, 0.01)
	chk.Scalar(tst, "theta", 1e-15, c.Theta, 0.6)
	if c.Encoder != "gob" {
		tst.Errorf("expected default encoder to survive JSON with no explicit encoder, got %q", c.Encoder)
	}
	chk.IntAssert(c.SampleInterval, c.Steps)
}
