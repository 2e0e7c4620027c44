// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/octree"
	"github.com/cpmech/gosl/chk"
)

// Reconstruct walks a received pre-order cell list and grafts every root
// entry (parent == -1) into t. Non-root entries are attached to their parent
// by the first free child slot, in the sender's fixed emission order — this
// is what lets a flat buffer with no explicit slot index still reconstruct
// deterministically. A parent with no free slot is a protocol error: it
// means sender and receiver disagree on child ordering, and is reported
// rather than silently skipped
func Reconstruct(t *octree.Tree, boxes []geom.Box, mass []float64, com [][]float64, parent []int) error {
	n := len(boxes)
	arenaIdx := make([]int, n)
	for i := 0; i < n; i++ {
		arenaIdx[i] = t.AllocExternal(boxes[i], mass[i], com[i])
	}
	for i := 0; i < n; i++ {
		if parent[i] == -1 {
			if err := t.InsertCell(boxes[i], arenaIdx[i]); err != nil {
				return chk.Err("wire: failed to graft root cell %d: %v", i, err)
			}
			continue
		}
		if err := t.LinkChild(arenaIdx[parent[i]], arenaIdx[i]); err != nil {
			return chk.Err("wire: failed to attach cell %d to parent %d: %v", i, parent[i], err)
		}
	}
	return nil
}
