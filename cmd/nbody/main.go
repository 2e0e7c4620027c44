// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gonbody/inp"
	"github.com/cpmech/gonbody/integrate"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	fnamepath, _ := io.ArgToFilename(0, "", ".nbody", true)

	if mpi.Rank() == 0 {
		io.PfWhite("\ngonbody -- distributed Barnes-Hut N-body simulator\n\n")
	}

	cfg, err := inp.ReadConfig(fnamepath)
	if err != nil {
		chk.Panic("%v", err)
	}

	if mpi.Rank() == 0 && cfg.Verbose {
		io.Pf("\n%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"number of steps", "steps", cfg.Steps,
			"time step", "dt", cfg.Dt,
			"opening angle", "theta", cfg.Theta,
			"number of processes", "nproc", mpi.Size(),
		))
	}

	if err := integrate.Run(cfg); err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
}
