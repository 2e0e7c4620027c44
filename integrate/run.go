// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package integrate drives the leapfrog time loop: partition, build,
// evaluate, update, and periodically write output, on every rank
package integrate

import (
	"math"
	"time"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/bodyio"
	"github.com/cpmech/gonbody/force"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/inp"
	"github.com/cpmech/gonbody/orb"
	"github.com/cpmech/gonbody/summary"
	"github.com/cpmech/gonbody/treebuild"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"
)

// Run loads the configured input file, executes cfg.Steps leapfrog steps,
// and writes the configured outputs. It is called identically on every rank
func Run(cfg *inp.Config) (err error) {
	rank := mpi.Rank()
	size := mpi.Size()
	if log2(size) < 0 {
		return chk.Err("integrate: number of processes (%d) is not a power of two", size)
	}

	local, err := bodyio.ReadBodies(cfg.InFile, cfg.Encoder, rank)
	if err != nil {
		return err
	}
	nbodies := int(allReduce([]float64{float64(len(local))}, rank, size, func(a, b float64) float64 { return a + b })[0])

	var globalBox geom.Box
	if cfg.HasGlobalBox() {
		globalBox = cfg.GlobalBox()
		for _, b := range local {
			if !globalBox.Contains(b.Pos) {
				return chk.Err("integrate: body %d at %v lies outside the configured global box", b.Id, b.Pos)
			}
		}
	} else {
		globalBox = reduceGlobalBox(local, rank, size)
	}

	var outOfRange []*body.Body
	overwrite := true
	firstPass := true
	var clockStart time.Time
	if rank == 0 && cfg.ClockRun {
		clockStart = time.Now()
	}

	for t := 0; t < cfg.Steps; t++ {
		steps, _, partitioned, perr := orb.Partition(local, globalBox, rank, size, firstPass)
		if perr != nil {
			return perr
		}
		firstPass = false
		local = partitioned

		tree, berr := treebuild.Build(local, steps, globalBox, cfg.Theta, cfg.G, cfg.RSoft)
		if berr != nil {
			return berr
		}

		forces := force.EvalAll(tree, local)
		local, outOfRange = advance(cfg, globalBox, local, forces, outOfRange)

		if rank == 0 && cfg.Verbose {
			io.Pf("\rTime step: %d/%d", t+1, cfg.Steps)
			if t == cfg.Steps-1 {
				io.Pf("\n")
			}
		}

		if (t+1)%cfg.SampleInterval == 0 {
			if cfg.WritePositions {
				if werr := bodyio.WriteBodies(cfg.OutFile, cfg.Encoder, rank, local, outOfRange, overwrite); werr != nil {
					return werr
				}
			}
			if rank == 0 && cfg.WriteTree {
				if werr := bodyio.WriteTreeDump(cfg.OutTreeFile, tree, overwrite); werr != nil {
					return werr
				}
			}
			if rank == 0 && cfg.WriteTreeSize {
				if werr := bodyio.WriteTreeSize(cfg.OutTreeSizeFile, tree, overwrite); werr != nil {
					return werr
				}
			}
			overwrite = false
		}
	}

	if cfg.WriteSummary && rank == 0 {
		s := summary.Summary{Nbodies: nbodies, Nproc: size, Steps: cfg.Steps, Dt: cfg.Dt}
		if cfg.ClockRun {
			s.WallTime = time.Since(clockStart).Seconds()
		}
		if serr := s.Save(cfg.OutSumFile, cfg.Encoder); serr != nil {
			return serr
		}
	}
	return nil
}

// advance applies one leapfrog step to local given the forces already
// evaluated against it, then splits the result into the bodies still inside
// globalBox and those that left it, appending the latter to outOfRange
func advance(cfg *inp.Config, globalBox geom.Box, local []*body.Body, forces [][]float64, outOfRange []*body.Body) (kept, removed []*body.Body) {
	removed = outOfRange
	for i, b := range local {
		for c := 0; c < geom.Dims; c++ {
			a := forces[i][c] / b.Mass
			b.Pos[c] += b.Vel[c]*cfg.Dt + 0.5*a*cfg.Dt*cfg.Dt
			b.Vel[c] += a * cfg.Dt
		}
		if globalBox.Contains(b.Pos) {
			kept = append(kept, b)
		} else {
			removed = append(removed, b)
		}
	}
	return
}

// reduceGlobalBox computes the tightest box enclosing every rank's initial
// bodies via a recursive-doubling min/max reduction, used when the run does
// not configure a fixed global box
func reduceGlobalBox(local []*body.Body, rank, size int) geom.Box {
	lo := utl.DblVals(geom.Dims, math.Inf(1))
	hi := utl.DblVals(geom.Dims, math.Inf(-1))
	for _, b := range local {
		for c := 0; c < geom.Dims; c++ {
			lo[c] = utl.Min(lo[c], b.Pos[c])
			hi[c] = utl.Max(hi[c], b.Pos[c])
		}
	}
	lo = allReduce(lo, rank, size, math.Min)
	hi = allReduce(hi, rank, size, math.Max)
	// Contains is half-open on hi; pad so a body sitting exactly on the
	// reduced maximum is not immediately reported out-of-range
	for c := 0; c < geom.Dims; c++ {
		pad := 1e-9 * math.Max(1, hi[c]-lo[c])
		hi[c] += pad
	}
	return geom.NewBox(lo, hi)
}

func log2(n int) int {
	if n < 1 {
		return -1
	}
	levels := 0
	for n > 1 {
		if n%2 != 0 {
			return -1
		}
		n /= 2
		levels++
	}
	return levels
}
