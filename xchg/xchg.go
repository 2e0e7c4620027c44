// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package xchg implements the exact-one-send-exact-one-recv exchange pattern
// used by both the ORB body redistribution and the per-level cell exchange:
// a length header discovers the peer's buffer size (playing the role the
// source fills with MPI_Probe / MPI_Get_count), followed by the payload
// itself, with send/recv order fixed by the ORB initiator flag
package xchg

import "github.com/cpmech/gosl/mpi"

// Exchange trades sendBuf with partner and returns whatever partner sent
// back. initiator true receives then sends; false sends then receives. This
// is the one deadlock-avoidance rule the core relies on: within a pair,
// exactly one side blocks on a receive first
func Exchange(sendBuf []float64, partner int, initiator bool) (recvBuf []float64) {
	if initiator {
		recvBuf = recvWithLen(partner)
		sendWithLen(sendBuf, partner)
	} else {
		sendWithLen(sendBuf, partner)
		recvBuf = recvWithLen(partner)
	}
	return
}

func sendWithLen(buf []float64, partner int) {
	mpi.Send([]float64{float64(len(buf))}, partner)
	if len(buf) > 0 {
		mpi.Send(buf, partner)
	}
}

func recvWithLen(partner int) []float64 {
	hdr := make([]float64, 1)
	mpi.Recv(hdr, partner)
	n := int(hdr[0] + 0.5)
	if n == 0 {
		return nil
	}
	buf := make([]float64, n)
	mpi.Recv(buf, partner)
	return buf
}
