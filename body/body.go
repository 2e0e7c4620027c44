// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package body implements the point-mass Body type carried through ORB
// redistribution, tree construction and force evaluation
package body

import "github.com/cpmech/gonbody/geom"

// OutOfRangeMass tags a Body that has left the global simulation box; test
// drivers and the body-output writer use this sentinel to separate active
// bodies from the ones diverted to the out-of-range sink
const OutOfRangeMass = -1.0

// Body is a point mass. Id is stable across redistributions. Work records the
// wall time spent evaluating this body's force on the previous step and is
// used as the ORB load-balancing weight on the next pass
type Body struct {
	Id   int       // external id, preserved through redistributions
	Pos  []float64 // [geom.Dims] position
	Vel  []float64 // [geom.Dims] velocity
	Mass float64   // m > 0; bodies in the out-of-range sink are written out with OutOfRangeMass
	Work float64   // wall time consumed in the most recent force evaluation
}

// New allocates a Body with freshly cloned position and velocity slices
func New(id int, pos, vel []float64, mass float64) (o *Body) {
	geom.CheckDims("pos", pos)
	geom.CheckDims("vel", vel)
	o = &Body{Id: id, Mass: mass}
	o.Pos = append([]float64{}, pos...)
	o.Vel = append([]float64{}, vel...)
	return
}

// IsOutOfRange reports whether this body has been tagged as having left the
// global box
func (o *Body) IsOutOfRange() bool {
	return o.Mass == OutOfRangeMass
}

// Clone returns a deep copy of o
func (o *Body) Clone() *Body {
	return &Body{
		Id:   o.Id,
		Pos:  append([]float64{}, o.Pos...),
		Vel:  append([]float64{}, o.Vel...),
		Mass: o.Mass,
		Work: o.Work,
	}
}
