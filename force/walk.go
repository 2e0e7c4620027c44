// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package force walks the local octree for each owned body, opening cells
// by the Barnes-Hut criterion s/d < theta and accumulating the kernel's
// contribution, then times the walk into the body's work weight for the
// next ORB pass
package force

import (
	"time"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/octree"
	"github.com/cpmech/gonbody/physics"
)

// Walk returns the total force (not acceleration; see physics.EvalForce) on
// b from every other body represented in t, approximating distant clusters
// by their aggregate mass and center of mass whenever s/d < t.Theta
func Walk(t *octree.Tree, b *body.Body) []float64 {
	acc := make([]float64, geom.Dims)
	walk(t, t.Root(), b, acc)
	return acc
}

func walk(t *octree.Tree, idx int, b *body.Body, acc []float64) {
	c := t.Cell(idx)
	if c.IsEmpty() {
		return
	}

	if c.IsBodyLeaf() {
		if c.BodyId == b.Id {
			return
		}
		addForce(t, b, c.Com, c.Mass, acc)
		return
	}

	if c.IsAggregate() {
		addForce(t, b, c.Com, c.Mass, acc)
		return
	}

	d := geom.Dist(b.Pos, c.Com)
	s := c.Box.MaxSide()
	if d > 0 && s/d < t.Theta {
		addForce(t, b, c.Com, c.Mass, acc)
		return
	}

	for _, ch := range c.Children {
		if ch != octree.NoChild {
			walk(t, ch, b, acc)
		}
	}
}

func addForce(t *octree.Tree, b *body.Body, com []float64, mass float64, acc []float64) {
	f := physics.EvalForce(b.Pos, b.Mass, com, mass, t.G, t.RSoft)
	for c := range acc {
		acc[c] += f[c]
	}
}

// EvalAll walks t once per body in bodies, returning the total force on
// each in the same order. It records each walk's wall-clock duration into
// the body's Work field, the weight the next ORB pass load-balances on
func EvalAll(t *octree.Tree, bodies []*body.Body) [][]float64 {
	forces := make([][]float64, len(bodies))
	for i, b := range bodies {
		start := time.Now()
		forces[i] = Walk(t, b)
		b.Work = time.Since(start).Seconds()
	}
	return forces
}
