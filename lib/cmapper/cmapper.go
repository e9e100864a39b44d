//
// Copyright (C) 2015-2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//

package cmapper

// CoordMapper maps positions between a window [Start,End) of a sequence and
// the sequence itself. Positions are distances from the sequence start if
// Strand is 1 (C-strand telomere) or from the sequence end if Strand is -1
// (G-strand telomere).
type CoordMapper struct {
	Start, End int
	SeqLength  int
	Strand     int8
	Length     int
}

// NewBracket returns the mapper of the window spanning before nucleotides
// toward the telomere and after nucleotides toward the centromere of pos.
func NewBracket(seqLength int, strand int8, pos, before, after int) *CoordMapper {
	cm := CoordMapper{SeqLength: seqLength, Strand: strand}
	if strand == -1 {
		cm.Start, cm.End = seqLength-(pos+after), seqLength-(pos-before)
	} else {
		cm.Start, cm.End = pos-before, pos+after
	}
	cm.Init()
	return &cm
}

// NewEnd returns the mapper of the first (strand 1) or last (strand -1) size nucleotides.
func NewEnd(seqLength int, strand int8, size int) *CoordMapper {
	cm := CoordMapper{SeqLength: seqLength, Strand: strand}
	if strand == -1 {
		cm.Start, cm.End = seqLength-size, seqLength
	} else {
		cm.Start, cm.End = 0, size
	}
	cm.Init()
	return &cm
}

// Init clamps the window to the sequence.
func (cm *CoordMapper) Init() {
	if cm.Start < 0 {
		cm.Start = 0
	}
	if cm.Start > cm.SeqLength {
		cm.Start = cm.SeqLength
	}
	if cm.End > cm.SeqLength {
		cm.End = cm.SeqLength
	}
	if cm.End < cm.Start {
		cm.End = cm.Start
	}
	// Length
	cm.Length = cm.GetLength()
}

// GetLength returns mapper length.
func (cm *CoordMapper) GetLength() int {
	return cm.End - cm.Start
}

// Slice returns the window of seq.
func (cm *CoordMapper) Slice(seq []byte) []byte {
	return seq[cm.Start:cm.End]
}

// Window2Seq translates a position of the window to the sequence.
func (cm *CoordMapper) Window2Seq(pos int) int {
	if cm.Strand == -1 {
		return cm.SeqLength - cm.End + pos
	}
	return cm.Start + pos
}
