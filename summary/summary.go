// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package summary records and persists the end-of-run summary written by
// rank 0: step count, process count, wall time
package summary

import (
	"bytes"
	"os"

	"github.com/cpmech/gonbody/bodyio"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Summary records the end-of-run statistics for one invocation
type Summary struct {
	Nbodies  int     // total number of bodies at t=0
	Nproc    int     // number of processes the run used
	Steps    int     // number of time steps completed
	Dt       float64 // time step
	WallTime float64 // total elapsed wall time in seconds, if ClockRun was set
}

// Save writes o to fn using enctype ("json" or "gob")
func (o Summary) Save(fn, enctype string) (err error) {
	var buf bytes.Buffer
	enc := bodyio.GetEncoder(&buf, enctype)
	if err = enc.Encode(o); err != nil {
		return chk.Err("summary: encoding failed: %v", err)
	}
	f, err := os.Create(fn)
	if err != nil {
		return chk.Err("summary: cannot create %q: %v", fn, err)
	}
	defer f.Close()
	if _, err = buf.WriteTo(f); err != nil {
		return chk.Err("summary: cannot write %q: %v", fn, err)
	}
	return nil
}

// Read loads a Summary previously written by Save
func Read(fn, enctype string) (o *Summary, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("summary: cannot open %q: %v", fn, err)
	}
	defer f.Close()
	o = new(Summary)
	dec := bodyio.GetDecoder(f, enctype)
	if err = dec.Decode(o); err != nil {
		return nil, chk.Err("summary: cannot decode %q: %v", fn, err)
	}
	return o, nil
}

// Print writes a one-line human-readable report to rank 0's console
func (o Summary) Print() {
	io.Pf("bodies=%d  proc=%d  steps=%d  dt=%g  walltime=%gs\n", o.Nbodies, o.Nproc, o.Steps, o.Dt, o.WallTime)
}
