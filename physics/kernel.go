// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package physics implements the pairwise gravitational kernel shared by the
// brute-force reference computation and the Barnes-Hut tree walk
package physics

import (
	"math"

	"github.com/cpmech/gonbody/geom"
)

// EvalForce returns the force (not acceleration) exerted on point mass 1 by
// point mass 2: f = G.m1.m2.(r2-r1) / max(|r1-r2|, rSoft)^3, i.e. pointing
// from 1 towards 2, matching Newtonian attraction.
//
// The result is proportional to m1*m2, so callers wanting acceleration must
// divide by m1 themselves (see package integrate). rSoft bounds the
// denominator away from zero at close range. Self-interaction (r1 == r2)
// must be excluded by the caller; this function does not special-case it.
//
// d is taken as r2-r1, not r1-r2: both give the same magnitude, but only
// this sign convention points the force from body 1 towards body 2, the
// direction Newtonian attraction requires
func EvalForce(r1 []float64, m1 float64, r2 []float64, m2 float64, g, rSoft float64) (f []float64) {
	f = make([]float64, geom.Dims)
	d := make([]float64, geom.Dims)
	norm2 := 0.0
	for c := 0; c < geom.Dims; c++ {
		d[c] = r2[c] - r1[c]
		norm2 += d[c] * d[c]
	}
	norm := math.Sqrt(norm2)
	denom := math.Max(rSoft*rSoft*rSoft, norm*norm*norm)
	mm := m1 * m2
	for c := 0; c < geom.Dims; c++ {
		f[c] = g * mm * d[c] / denom
	}
	return
}
