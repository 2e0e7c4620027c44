// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bodyio reads and writes body snapshots and tree dumps, one file
// per rank for snapshots so that no rank blocks on another during I/O
package bodyio

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gonbody/body"
	"github.com/cpmech/gonbody/octree"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// snapshot is the on-disk record for one body: external id, position,
// velocity, mass. Work is not persisted; a freshly read body has Work 0, and
// the first ORB pass weighs every body uniformly
type snapshot struct {
	Id   int       `json:"id"`
	Pos  []float64 `json:"pos"`
	Vel  []float64 `json:"vel"`
	Mass float64   `json:"mass"`
}

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder for enctype ("json" or "gob")
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder for enctype ("json" or "gob")
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// rankPath returns the per-rank file path for a body snapshot: bodies are
// split one file per process so readers and writers never coordinate
func rankPath(base string, enctype string, proc int) string {
	return io.Sf("%s.p%d.%s", base, proc, enctype)
}

// WriteBodies writes the local rank's live bodies and, appended, its
// out-of-range sink, to its own snapshot file. overwrite selects O_TRUNC
// over O_APPEND, matching the run's first-sample-vs-later-sample semantics
func WriteBodies(base, enctype string, proc int, live, outOfRange []*body.Body, overwrite bool) (err error) {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	fn := rankPath(base, enctype, proc)
	f, err := os.OpenFile(fn, flags, 0666)
	if err != nil {
		return chk.Err("bodyio: cannot open %q: %v", fn, err)
	}
	defer f.Close()

	enc := GetEncoder(f, enctype)
	all := make([]snapshot, 0, len(live)+len(outOfRange))
	for _, b := range live {
		all = append(all, snapshot{Id: b.Id, Pos: b.Pos, Vel: b.Vel, Mass: b.Mass})
	}
	for _, b := range outOfRange {
		all = append(all, snapshot{Id: b.Id, Pos: b.Pos, Vel: b.Vel, Mass: body.OutOfRangeMass})
	}
	if err = enc.Encode(all); err != nil {
		return chk.Err("bodyio: cannot encode bodies to %q: %v", fn, err)
	}
	return nil
}

// ReadBodies reads the per-rank snapshot file for proc, returning the
// bodies it contains. A body whose stored mass equals body.OutOfRangeMass
// is reported via IsOutOfRange rather than filtered here
func ReadBodies(base, enctype string, proc int) (bodies []*body.Body, err error) {
	fn := rankPath(base, enctype, proc)
	f, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("bodyio: cannot open %q: %v", fn, err)
	}
	defer f.Close()

	var all []snapshot
	dec := GetDecoder(f, enctype)
	if err = dec.Decode(&all); err != nil {
		return nil, chk.Err("bodyio: cannot decode %q: %v", fn, err)
	}
	bodies = make([]*body.Body, len(all))
	for i, s := range all {
		b := body.New(s.Id, s.Pos, s.Vel, s.Mass)
		bodies[i] = b
	}
	return bodies, nil
}

// WriteTreeDump writes a human-readable snapshot of t to fn, one line per
// cell: depth, box lo/hi, mass, center of mass. Every rank builds its own
// local tree, so only rank 0 should call this or the file would be
// clobbered by concurrent writers
func WriteTreeDump(fn string, t *octree.Tree, overwrite bool) (err error) {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(fn, flags, 0666)
	if err != nil {
		return chk.Err("bodyio: cannot open %q: %v", fn, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	dumpCell(w, t, t.Root(), 0)
	if err = w.Flush(); err != nil {
		return chk.Err("bodyio: cannot write %q: %v", fn, err)
	}
	return nil
}

func dumpCell(w *bufio.Writer, t *octree.Tree, idx, depth int) {
	c := t.Cell(idx)
	if c.IsEmpty() {
		return
	}
	var line bytes.Buffer
	for i := 0; i < depth; i++ {
		line.WriteByte(' ')
	}
	line.WriteString(strconv.Itoa(depth))
	line.WriteByte(' ')
	writeVec(&line, c.Box.Lo)
	line.WriteByte(' ')
	writeVec(&line, c.Box.Hi)
	line.WriteByte(' ')
	line.WriteString(strconv.FormatFloat(c.Mass, 'g', -1, 64))
	line.WriteByte(' ')
	writeVec(&line, c.Com)
	line.WriteByte('\n')
	w.Write(line.Bytes())

	for _, ch := range c.Children {
		if ch != octree.NoChild {
			dumpCell(w, t, ch, depth+1)
		}
	}
}

func writeVec(b *bytes.Buffer, v []float64) {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	b.WriteString(strings.Join(parts, ","))
}

// WriteTreeSize writes the number of cells in t as one line to fn, truncating
// fn first when overwrite is set and appending otherwise
func WriteTreeSize(fn string, t *octree.Tree, overwrite bool) (err error) {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(fn, flags, 0666)
	if err != nil {
		return chk.Err("bodyio: cannot open %q: %v", fn, err)
	}
	defer f.Close()
	io.Ff(f, "%d\n", t.NumCells())
	return nil
}
