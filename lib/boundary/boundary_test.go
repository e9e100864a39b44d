//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package boundary

import (
	"bytes"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"git.sr.ht/~vejnar/TeloBP/lib/composition"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

func TestLocateJunction(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name   string
		seq    []byte
		strand strand.Call
		last   bool
	}{
		{"g first", gSeq(), strand.G, false},
		{"g last", gSeq(), strand.G, true},
		{"c first", cSeq(), strand.C, false},
		{"c last", cSeq(), strand.C, true},
	}
	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			p := DefaultParams()
			p.Strand = test.strand
			p.LastDiscontinuity = test.last
			res := Locate(test.seq, p)
			c.Assert(res.Kind, qt.Equals, Found)
			c.Assert(res.Strand, qt.Equals, test.strand)
			c.Assert(res.Position, qt.Equals, 1194)
			c.Assert(res.ReachedEnd, qt.IsFalse)
		})
	}
}

func TestLocateInfersStrand(t *testing.T) {
	c := qt.New(t)
	res := Locate(gSeq(), DefaultParams())
	c.Assert(res.Kind, qt.Equals, Found)
	c.Assert(res.GStrand(), qt.IsTrue)
	c.Assert(res.Position, qt.Equals, 1194)

	res = Locate(cSeq(), DefaultParams())
	c.Assert(res.Kind, qt.Equals, Found)
	c.Assert(res.Strand, qt.Equals, strand.C)
	c.Assert(res.Position, qt.Equals, 1194)
}

func TestLocateLowerCase(t *testing.T) {
	c := qt.New(t)
	p := DefaultParams()
	p.Strand = strand.G
	res := Locate(bytes.ToLower(gSeq()), p)
	c.Assert(res.Kind, qt.Equals, Found)
	c.Assert(res.Position, qt.Equals, 1194)
}

func TestLocateLowerCaseTable(t *testing.T) {
	c := qt.New(t)
	p := DefaultParams()
	p.Strand = strand.G
	table, err := composition.FromSpecs([]composition.Spec{{Pattern: "ttaggg|ttgggg", Fraction: 1, TargetLength: 6}})
	c.Assert(err, qt.IsNil)
	p.CompositionG = table
	res := Locate(gSeq(), p)
	c.Assert(res.Kind, qt.Equals, Found)
	c.Assert(res.Position, qt.Equals, 1194)
}

func TestLocateIdempotent(t *testing.T) {
	c := qt.New(t)
	seq := gSeq()
	p := DefaultParams()
	first := Locate(seq, p)
	second := Locate(seq, p)
	c.Assert(second, qt.DeepEquals, first)
}

func TestLocateEndToEnd(t *testing.T) {
	c := qt.New(t)
	seq := concat(repeat("N", 50000), filler(2000, "ACT"), repeat("TTAGGG", 200))
	p := DefaultParams()
	p.Strand = strand.G
	res := Locate(seq, p)
	c.Assert(res.Kind, qt.Equals, Found)
	c.Assert(res.GStrand(), qt.IsTrue)
	c.Assert(res.Position >= 1200-p.WindowStep && res.Position <= 1200+p.WindowStep, qt.IsTrue, qt.Commentf("position %d", res.Position))

	p.SecondarySearch = true
	c.Assert(Locate(seq, p).Position, qt.Equals, 1200)
}

func TestLocateFailures(t *testing.T) {
	c := qt.New(t)
	codes := DefaultCodes()

	c.Run("short sequence", func(c *qt.C) {
		p := DefaultParams()
		p.Strand = strand.G
		res := Locate(repeat("TTAGGG", 10), p)
		c.Assert(res.Kind, qt.Equals, Validation)
		c.Assert(res.Strand, qt.Equals, strand.Undetermined)
		c.Assert(errors.Is(res.Err, ErrShortSequence), qt.IsTrue)
		c.Assert(codes.Code(res), qt.Equals, codes.Init)
	})

	c.Run("no discontinuity", func(c *qt.C) {
		p := DefaultParams()
		p.Strand = strand.G
		res := Locate(repeat("TTAGGG", 300), p)
		c.Assert(res.Kind, qt.Equals, NoBoundary)
		c.Assert(errors.Is(res.Err, ErrNoDiscontinuity), qt.IsTrue)
		c.Assert(codes.Code(res), qt.Equals, codes.Init)
	})

	c.Run("fused", func(c *qt.C) {
		seq := concat(repeat("CCCTAA", 150), filler(1000, "AT"), repeat("TTAGGG", 150))
		res := Locate(seq, DefaultParams())
		c.Assert(res.Kind, qt.Equals, FusedRead)
		c.Assert(codes.Code(res), qt.Equals, codes.FusedRead)
	})

	c.Run("undetermined strand", func(c *qt.C) {
		res := Locate(filler(500, "ACGT"), DefaultParams())
		c.Assert(res.Kind, qt.Equals, StrandUndetermined)
		c.Assert(codes.Code(res), qt.Equals, codes.StrandType)
	})

	c.Run("invalid parameters", func(c *qt.C) {
		p := DefaultParams()
		p.WindowStep = 0
		res := Locate(gSeq(), p)
		c.Assert(res.Kind, qt.Equals, Validation)
		c.Assert(errors.Is(res.Err, ErrInvalidParams), qt.IsTrue)
	})
}

func TestLocateSecondarySearch(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name     string
		seq      []byte
		strand   strand.Call
		coarse   int
		expected int
	}{
		{"g", gSeq(), strand.G, 1194, 1200},
		{"c", cSeq(), strand.C, 1194, 1194},
		// Telomeres shorter than the bracket: window clamped at the sequence edge
		{"g clamped", concat(filler(3000, "ACT"), repeat("TTAGGG", 60)), strand.G, 354, 360},
		{"c clamped", concat(repeat("CCCTAA", 60), filler(3000, "AGT")), strand.C, 354, 354},
		// Match bracket clamped at the sequence end: the snap is the telomere length
		{"g short", concat(filler(3000, "ACT"), repeat("TTAGGG", 4)), strand.G, 18, 24},
		// No two back-to-back repeats: the sub-sequence boundary is kept
		{"g no pair", concat(filler(3000, "ACT"), repeat("TTAGGGA", 180)), strand.G, 1248, 1258},
	}
	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			p := DefaultParams()
			p.Strand = test.strand
			c.Assert(Locate(test.seq, p).Position, qt.Equals, test.coarse)
			p.SecondarySearch = true
			res := Locate(test.seq, p)
			c.Assert(res.Kind, qt.Equals, Found)
			c.Assert(res.Position, qt.Equals, test.expected)
			c.Assert(res.Position-test.coarse <= refineSubtelomereFlank && test.coarse-res.Position <= refineTelomereFlank, qt.IsTrue)
		})
	}
}

func TestLocateSecondarySearchFallback(t *testing.T) {
	c := qt.New(t)
	// Last pattern with a fraction below 1: C-strand refinement keeps the coarse boundary
	p := DefaultParams()
	p.Strand = strand.C
	p.TargetPatternIndex = 0
	p.CompositionC = composition.Table{
		composition.MustPattern("CCCTAA", 1, 0),
		composition.MustPattern("CCC", 3./6., 0),
	}
	coarseRes := Locate(cSeq(), p)
	p.SecondarySearch = true
	c.Assert(Locate(cSeq(), p), qt.DeepEquals, coarseRes)
}

func TestLocateSecondarySearchShort(t *testing.T) {
	c := qt.New(t)
	// 88 nucleotides: the refinement bracket is shorter than its minimum length
	seq := concat(repeat("CCCTAA", 8), repeat("A", 40))
	p := DefaultParams()
	p.Strand = strand.C
	p.TeloWindow = 20
	p.AreaWindowSize = 12
	coarseRes := Locate(seq, p)
	c.Assert(coarseRes.Kind, qt.Equals, Found)
	c.Assert(coarseRes.Position, qt.Equals, 48)
	p.SecondarySearch = true
	c.Assert(Locate(seq, p), qt.DeepEquals, coarseRes)
}

func TestLocateGraph(t *testing.T) {
	c := qt.New(t)
	g := &graphRecorder{}
	p := DefaultParams()
	p.Strand = strand.G
	p.SecondarySearch = true
	p.Graph = g
	Locate(gSeq(), p)
	Locate(repeat("TTAGGG", 300), p)
	c.Assert(g.labels, qt.DeepEquals, []string{"TTAGGG Area", "TTAGGG Area"})
	c.Assert(g.boundaries, qt.DeepEquals, []int{1200, -1})
	c.Assert(g.lengths[0], qt.Equals, (len(gSeq())-100)/6+1)
}

func TestTeloNPParams(t *testing.T) {
	c := qt.New(t)
	p := TeloNPParams()
	c.Assert(p.Validate(), qt.IsNil)
	res := Locate(gSeq(), p)
	c.Assert(res.Kind, qt.Equals, Found)
	c.Assert(res.GStrand(), qt.IsTrue)
	c.Assert(res.Position, qt.Equals, 1200)
}
