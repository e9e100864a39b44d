//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package composition

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewPattern(t *testing.T) {
	c := qt.New(t)

	p, err := NewPattern("ttaggg", 1, 0)
	c.Assert(err, qt.IsNil)
	_, isLiteral := p.Rule.(Literal)
	c.Assert(isLiteral, qt.IsTrue)
	c.Assert(p.Rule.Unit(), qt.Equals, 6)
	c.Assert(p.String(), qt.Equals, "TTAGGG")

	p, err = NewPattern("GGG|AAA", 3./6., 3)
	c.Assert(err, qt.IsNil)
	_, isAlternation := p.Rule.(Alternation)
	c.Assert(isAlternation, qt.IsTrue)
	c.Assert(p.Rule.Unit(), qt.Equals, 3)

	_, err = NewPattern("GGG|AAA", 3./6., 0)
	c.Assert(errors.Is(err, ErrMissingTargetLength), qt.IsTrue)
	_, err = NewPattern("", 1, 0)
	c.Assert(errors.Is(err, ErrEmptyPattern), qt.IsTrue)
	_, err = NewPattern("GGG", 1.5, 0)
	c.Assert(errors.Is(err, ErrFraction), qt.IsTrue)
	_, err = NewPattern("GG(G", 1, 3)
	c.Assert(err, qt.ErrorMatches, "composition: pattern GG\\(G: .*")
}

func TestCount(t *testing.T) {
	c := qt.New(t)
	window := []byte("GGGGGGTTAGGGTTGGGG")
	c.Assert(NewLiteral("GGG").Count(window), qt.Equals, 4)
	alt, err := NewAlternation("TTAGGG|TTGGGG", 6)
	c.Assert(err, qt.IsNil)
	c.Assert(alt.Count(window), qt.Equals, 2)

	// Case is ignored on both sides
	alt, err = NewAlternation("ttaggg|ttgggg", 6)
	c.Assert(err, qt.IsNil)
	c.Assert(alt.Count(window), qt.Equals, 2)
	c.Assert(alt.Count([]byte("ttagggTTGGGG")), qt.Equals, 2)
	c.Assert(alt.String(), qt.Equals, "ttaggg|ttgggg")
}

func TestOffset(t *testing.T) {
	c := qt.New(t)
	p := MustPattern("TTAGGG", 1, 0)
	c.Assert(p.Offset([]byte("TTAGGGTTAGGG")), qt.Equals, 0.)
	c.Assert(p.Offset([]byte("TTAGGGAAAAAA")), qt.Equals, -50.)
	c.Assert(p.Offset([]byte("AAAAAAAAAAAA")), qt.Equals, -100.)
	z := MustPattern("AAC", 0, 0)
	c.Assert(z.Offset([]byte("AACAAAAAAAAA")), qt.Equals, 25.)
}

func TestTable(t *testing.T) {
	c := qt.New(t)
	table := DefaultG()
	c.Assert(table.Validate(), qt.IsNil)
	i, err := table.Index(-1)
	c.Assert(err, qt.IsNil)
	c.Assert(i, qt.Equals, 1)
	target, err := table.Target(-1)
	c.Assert(err, qt.IsNil)
	c.Assert(target.String(), qt.Equals, "TTAGGG")
	_, err = table.Index(2)
	c.Assert(errors.Is(err, ErrTargetIndex), qt.IsTrue)
	_, err = table.Index(-3)
	c.Assert(errors.Is(err, ErrTargetIndex), qt.IsTrue)

	c.Assert(errors.Is(Table{}.Validate(), ErrEmptyTable), qt.IsTrue)
	c.Assert(errors.Is(Table{{Rule: Alternation{}, Fraction: 1}}.Validate(), ErrMissingTargetLength), qt.IsTrue)

	// Factories return independent tables
	table[0] = MustPattern("AAA", 1, 0)
	c.Assert(DefaultG()[0].String(), qt.Equals, "GGG")

	for _, tb := range []Table{DefaultC(), TeloNPG(), TeloNPC()} {
		c.Assert(tb.Validate(), qt.IsNil)
	}
}

func TestFromSpecs(t *testing.T) {
	c := qt.New(t)
	table, err := FromSpecs([]Spec{
		{Pattern: "GGG", Fraction: 0.5},
		{Pattern: "TTAGGG|TTGGGG", Fraction: 1, TargetLength: 6},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(table, qt.HasLen, 2)
	c.Assert(table[1].Rule.Unit(), qt.Equals, 6)

	_, err = FromSpecs([]Spec{{Pattern: "TTAGGG|TTGGGG", Fraction: 1}})
	c.Assert(errors.Is(err, ErrMissingTargetLength), qt.IsTrue)
	_, err = FromSpecs(nil)
	c.Assert(errors.Is(err, ErrEmptyTable), qt.IsTrue)
}
