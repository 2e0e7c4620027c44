// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the run configuration read from a (.nbody) JSON file
package inp

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Config holds the global data for one simulation run
type Config struct {

	// global information
	Desc    string `json:"desc"`    // description of the run
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/gonbody
	Encoder string `json:"encoder"` // encoder name: "gob" or "json"

	// physics
	Steps int     `json:"steps"` // number of time steps
	Dt    float64 `json:"dt"`    // time step
	Theta float64 `json:"theta"` // Barnes-Hut opening angle
	G     float64 `json:"g"`     // gravitational constant
	RSoft float64 `json:"rsoft"` // softening length

	// domain
	GlobalBoxLo []float64 `json:"globalboxlo"` // fixed global box lower corner; empty => reduce from bodies
	GlobalBoxHi []float64 `json:"globalboxhi"` // fixed global box upper corner; empty => reduce from bodies

	// input
	InFile string `json:"infile"` // body snapshot to load at t=0

	// output
	WritePositions  bool   `json:"writepositions"`  // write body snapshots
	OutFile         string `json:"outfile"`         // body snapshot path
	WriteTree       bool   `json:"writetree"`       // dump the tree as text
	OutTreeFile     string `json:"outtreefile"`     // tree dump path
	WriteTreeSize   bool   `json:"writetreesize"`   // append tree cell counts
	OutTreeSizeFile string `json:"outtreesizefile"` // tree-size path
	SampleInterval  int    `json:"sampleinterval"`  // steps between outputs; 0 => every Steps

	// timing
	ClockRun    bool   `json:"clockrun"`    // time the whole run on rank 0; reported in the summary
	OutTimeFile string `json:"outtimefile"` // timing path

	// summary
	WriteSummary bool   `json:"writesummary"` // write a run summary on rank 0 at the end
	OutSumFile   string `json:"outsumfile"`   // summary path

	// diagnostics
	Verbose bool `json:"verbose"` // print per-step progress on rank 0

	// derived
	FnameKey string `json:"-"` // input filename key; e.g. run01.sim => run01
}

// SetDefault fills in reasonable defaults for every field before a config
// file is decoded over it
func (o *Config) SetDefault() {
	o.DirOut = "/tmp/gonbody"
	o.Encoder = "gob"
	o.Steps = 100
	o.Dt = 0.005
	o.Theta = 0.5
	o.G = 0.0001
	o.RSoft = 0.03
	o.OutFile = "positions.txt"
	o.OutTreeFile = "tree.txt"
	o.OutTreeSizeFile = "tree_size.txt"
	o.OutTimeFile = "time.txt"
	o.ClockRun = true
}

// PostProcess fills in derived fields and validates the loaded data
func (o *Config) PostProcess(simfilepath string) {
	if o.DirOut == "" {
		o.DirOut = "/tmp/gonbody"
	}
	if o.Encoder == "" {
		o.Encoder = "gob"
	}
	if o.SampleInterval <= 0 {
		o.SampleInterval = o.Steps
	}
	o.FnameKey = utl.FnKey(simfilepath)
	os.MkdirAll(o.DirOut, 0777)
}

// HasGlobalBox reports whether a fixed global box was configured, as
// opposed to one that must be reduced from the initial body positions
func (o *Config) HasGlobalBox() bool {
	return len(o.GlobalBoxLo) == geom.Dims && len(o.GlobalBoxHi) == geom.Dims
}

// GlobalBox returns the configured fixed global box. Only valid when
// HasGlobalBox is true
func (o *Config) GlobalBox() geom.Box {
	return geom.NewBox(o.GlobalBoxLo, o.GlobalBoxHi)
}

// ReadConfig loads a Config from a JSON file and runs SetDefault then
// PostProcess over it
func ReadConfig(simfilepath string) (o *Config, err error) {
	f, err := os.Open(simfilepath)
	if err != nil {
		return nil, chk.Err("inp: cannot open %q: %v", simfilepath, err)
	}
	defer f.Close()

	o = new(Config)
	o.SetDefault()
	if err = json.NewDecoder(f).Decode(o); err != nil {
		return nil, chk.Err("inp: cannot parse %q: %v", simfilepath, err)
	}
	o.PostProcess(simfilepath)
	return o, nil
}
