//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package boundary

import (
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

// Kind is the outcome of a boundary search.
type Kind int

const (
	Found Kind = iota
	Validation
	StrandUndetermined
	FusedRead
	NoBoundary
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Validation:
		return "validation"
	case StrandUndetermined:
		return "strand_undetermined"
	case FusedRead:
		return "fused_read"
	case NoBoundary:
		return "no_boundary"
	}
	return "unknown"
}

// Result of a boundary search. Position and Strand are only set if Kind is Found.
type Result struct {
	Kind Kind
	// Telomere length: offset of the boundary from the sequence start (C-strand)
	// or from the sequence end (G-strand)
	Position int
	Strand   strand.Call
	// No plateau was reached: Position is the end of the searched signal
	ReachedEnd bool
	// Cause of a Validation or NoBoundary failure
	Err error
}

func (r Result) OK() bool {
	return r.Kind == Found
}

// GStrand reports whether a boundary was found on a G-strand telomere.
func (r Result) GStrand() bool {
	return r.Kind == Found && r.Strand == strand.G
}

// Codes are the integer codes reported in place of a position for failed searches.
type Codes struct {
	Init       int `toml:"init" json:"init"`
	StrandType int `toml:"strand_type" json:"strand_type"`
	FusedRead  int `toml:"fused_read" json:"fused_read"`
}

func DefaultCodes() Codes {
	return Codes{Init: -1, StrandType: -10, FusedRead: -20}
}

// Code returns the position of r, or the code of its failure. Validation and
// NoBoundary share the Init code.
func (c Codes) Code(r Result) int {
	switch r.Kind {
	case Found:
		return r.Position
	case StrandUndetermined:
		return c.StrandType
	case FusedRead:
		return c.FusedRead
	}
	return c.Init
}
