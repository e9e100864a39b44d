//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

const testSAM = "@HD\tVN:1.0\tSO:unsorted\n" +
	"@SQ\tSN:chr1\tLN:10000\n" +
	"r1\t0\tchr1\t9000\t60\t12M\t*\t0\t0\tTTAGGGTTAGGG\t*\n" +
	"r2\t16\tchr1\t1\t60\t6M\t*\t0\t0\tCCCTAA\t*\n" +
	"r2\t256\tchr1\t5000\t0\t6M\t*\t0\t0\tCCCTAA\t*\n" +
	"r3\t0\tchr1\t1\t60\t6M\t*\t0\t0\tCCCTAA\t*\n"

type expected struct {
	name, seq string
	hint      strand.Call
}

func checkReader(c *qt.C, r *Reader) {
	tests := []expected{
		{"r1", "TTAGGGTTAGGG", strand.G},
		{"r2", "TTAGGG", strand.G},
		{"r3", "CCCTAA", strand.C},
	}
	for _, test := range tests {
		rec, err := r.Read()
		c.Assert(err, qt.IsNil)
		c.Assert(rec.ID, qt.Equals, test.name)
		c.Assert(string(rec.Seq), qt.Equals, test.seq)
		hint, ok := r.Hint()
		c.Assert(ok, qt.IsTrue)
		c.Assert(hint, qt.Equals, test.hint)
	}
	_, err := r.Read()
	c.Assert(err, qt.Equals, io.EOF)
}

func TestReader(t *testing.T) {
	c := qt.New(t)
	sr, err := sam.NewReader(strings.NewReader(testSAM))
	c.Assert(err, qt.IsNil)
	r := NewReader(sr)
	_, ok := r.Hint()
	c.Assert(ok, qt.IsFalse)
	checkReader(c, r)
}

func TestOpen(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "reads.sam")
	c.Assert(os.WriteFile(path, []byte(testSAM), 0666), qt.IsNil)
	pathSAM := NewPathSAM(path)
	c.Assert(pathSAM.Binary, qt.IsFalse)
	r, err := Open(pathSAM, 1, nil)
	c.Assert(err, qt.IsNil)
	defer r.Close()
	checkReader(c, r)

	c.Assert(NewPathSAM("reads.BAM").Binary, qt.IsTrue)
}
