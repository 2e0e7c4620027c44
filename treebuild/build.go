// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package treebuild drives the per-level exchange of subtrees with the ORB
// partner, grafts received subtrees into the local octree, and prunes —
// the cooperative construction step that leaves every rank holding a
// locally-sufficient Barnes-Hut tree after log2(P) exchanges
package treebuild

import (
	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/geom"
	"github.com/cpmech/gonbody/octree"
	"github.com/cpmech/gonbody/orb"
	"github.com/cpmech/gonbody/wire"
	"github.com/cpmech/gonbody/xchg"
	"github.com/cpmech/gosl/chk"
)

// Build constructs the local octree over globalBox: it seeds the ORB
// skeleton, inserts the locally-owned bodies, then for each ORB level
// (outermost to innermost) exchanges cells with the partner, grafts what it
// receives, and prunes down to that level's retained bound
func Build(bodies []*body.Body, steps []orb.Step, globalBox geom.Box, theta, g, rSoft float64) (*octree.Tree, error) {
	t := octree.NewTree(globalBox, theta, g, rSoft)

	for _, s := range steps {
		if err := t.InsertEmptyCell(s.Bound); err != nil {
			return nil, chk.Err("treebuild: seeding ORB skeleton failed: %v", err)
		}
	}

	for _, b := range bodies {
		if err := t.InsertBody(b); err != nil {
			return nil, chk.Err("treebuild: inserting local body failed: %v", err)
		}
	}

	for i, s := range steps {
		send := t.CellsToSend(s.OtherBound)
		sendBuf := wire.Encode(send.Box, send.Mass, send.Com, send.Parent)

		recvBuf := xchg.Exchange(sendBuf, s.Partner, s.Initiator)
		n := len(recvBuf) / wire.FloatsPerCell
		boxes, mass, com, parent, err := wire.Decode(recvBuf, n)
		if err != nil {
			return nil, chk.Err("treebuild: level %d: %v", i, err)
		}

		if err := wire.Reconstruct(t, boxes, mass, com, parent); err != nil {
			return nil, chk.Err("treebuild: level %d: %v", i, err)
		}

		// prune after grafting: the just-received cells may themselves
		// extend outside s.Bound and must be summarized, not before
		t.PruneTree(s.Bound)
	}
	return t, nil
}
