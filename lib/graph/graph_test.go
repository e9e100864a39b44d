//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package graph

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pierrec/lz4"

	"git.sr.ht/~vejnar/TeloBP/lib/boundary"
)

var _ boundary.GraphSink = (*Collector)(nil)

func collect() *Collector {
	c := &Collector{Name: "r1"}
	c.Add("TTAGGG Area", []float64{0, 0, -10.5}, 6, 12)
	c.Add("TTAGGG Area", []float64{-1}, 6, -1)
	return c
}

func writeAll(c *qt.C, path, format string) []byte {
	w, err := Create(path, format)
	c.Assert(err, qt.IsNil)
	for _, s := range collect().Series {
		c.Assert(w.Write(s), qt.IsNil)
	}
	c.Assert(w.Close(), qt.IsNil)
	b, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	return b
}

func TestCollector(t *testing.T) {
	c := qt.New(t)
	col := collect()
	c.Assert(col.Series, qt.HasLen, 2)
	c.Assert(col.Series[0].Name, qt.Equals, "r1 TTAGGG Area")
	c.Assert(col.Series[1].Boundary, qt.Equals, -1)

	anon := &Collector{}
	anon.Add("CCCTAA Area", nil, 6, -1)
	c.Assert(anon.Series[0].Name, qt.Equals, "CCCTAA Area")
}

func TestText(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	c.Assert(string(writeAll(c, filepath.Join(dir, "area.bedgraph"), "bedgraph")), qt.Equals,
		"#r1 TTAGGG Area\tboundary=12\n"+
			"r1 TTAGGG Area\t0\t12\t0.000000\n"+
			"r1 TTAGGG Area\t12\t18\t-10.500000\n"+
			"#r1 TTAGGG Area\tboundary=-1\n"+
			"r1 TTAGGG Area\t0\t6\t-1.000000\n")
	c.Assert(string(writeAll(c, filepath.Join(dir, "area.csv"), "csv")), qt.Equals,
		"\"r1 TTAGGG Area\",6,12,3,0,0,-10.5\n"+
			"\"r1 TTAGGG Area\",6,-1,1,-1\n")
}

func TestBinary(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	for _, format := range []string{"binary", "binary+lz4", "binary+lz4hc"} {
		c.Run(format, func(c *qt.C) {
			path := filepath.Join(dir, format)
			writeAll(c, path, format)
			f, err := os.Open(path)
			c.Assert(err, qt.IsNil)
			defer f.Close()
			var series []Series
			if format == "binary" {
				series, err = ReadBinary(f)
			} else {
				series, err = ReadBinary(lz4.NewReader(f))
			}
			c.Assert(err, qt.IsNil)
			c.Assert(series, qt.DeepEquals, collect().Series)
		})
	}
}

func TestBinaryChecksum(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "area.bin")
	b := writeAll(c, path, "binary")
	// First value of the first series
	b[1+4+len("r1 TTAGGG Area")+4+4+4] ^= 0xff
	c.Assert(os.WriteFile(path, b, 0666), qt.IsNil)
	f, err := os.Open(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	_, err = ReadBinary(f)
	c.Assert(errors.Is(err, ErrChecksum), qt.IsTrue)
}

func TestFormat(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	_, err := Create(filepath.Join(dir, "a"), "pdf")
	c.Assert(errors.Is(err, ErrFormat), qt.IsTrue)
	_, err = Create(filepath.Join(dir, "b"), "csv+bz2")
	c.Assert(errors.Is(err, ErrFormat), qt.IsTrue)
}
