// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import "github.com/cpmech/gonbody/xchg"

// allReduce combines v element-wise across all ranks [0,size) by recursive
// doubling, the same pattern orb uses within an ORB group but run over the
// whole communicator. size must be a power of two
func allReduce(v []float64, rank, size int, combine func(a, b float64) float64) []float64 {
	out := append([]float64{}, v...)
	for d := 1; d < size; d *= 2 {
		partner := rank ^ d
		recv := xchg.Exchange(out, partner, rank < partner)
		for c := range out {
			out[c] = combine(out[c], recv[c])
		}
	}
	return out
}
