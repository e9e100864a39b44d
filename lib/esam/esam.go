//
// Copyright (C) 2015-2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/TeloBP/lib/fastx"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

// PathSAM stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathSAM struct {
	Path   string
	Binary bool
}

// NewPathSAM guesses the format from the file extension.
func NewPathSAM(path string) PathSAM {
	return PathSAM{Path: path, Binary: strings.HasSuffix(strings.ToLower(path), ".bam")}
}

// Reader is a sequence source of aligned reads. Reads are returned in
// sequencing orientation: reverse-strand alignments are reverse complemented.
// Secondary and supplementary alignments are skipped.
type Reader struct {
	rr      sam.RecordReader
	closers []io.Closer
	last    *sam.Record
}

func NewReader(rr sam.RecordReader) *Reader {
	return &Reader{rr: rr}
}

// Open opens a SAM or BAM file. nWorker is the number of BAM decompressing
// goroutines. If not nil, wrap is applied to the file stream.
func Open(pathSAM PathSAM, nWorker int, wrap func(io.Reader) io.Reader) (*Reader, error) {
	f, err := os.Open(pathSAM.Path)
	if err != nil {
		return nil, err
	}
	var in io.Reader = f
	if wrap != nil {
		in = wrap(f)
	}
	r := &Reader{closers: []io.Closer{f}}
	if pathSAM.Binary {
		br, err := bam.NewReader(in, max(1, nWorker))
		if err != nil {
			f.Close()
			return nil, err
		}
		r.rr = br
		r.closers = append([]io.Closer{br}, r.closers...)
	} else {
		sr, err := sam.NewReader(in)
		if err != nil {
			f.Close()
			return nil, err
		}
		r.rr = sr
	}
	return r, nil
}

func (r *Reader) Read() (*fastx.Record, error) {
	for {
		aread, err := r.rr.Read()
		if err != nil {
			return nil, err
		}
		if aread.Flags&(sam.Secondary|sam.Supplementary) != 0 || aread.Seq.Length == 0 {
			continue
		}
		r.last = aread
		seq := aread.Seq.Expand()
		if aread.Flags&sam.Reverse != 0 {
			seq = fastx.RevComp(seq)
		}
		return &fastx.Record{ID: aread.Name, Seq: seq}, nil
	}
}

// Hint returns the telomere polarity of the last read, inferred from the chromosome
// arm it is aligned to (first or second half of the reference) and its alignment strand.
func (r *Reader) Hint() (strand.Call, bool) {
	aread := r.last
	if aread == nil || aread.Flags&sam.Unmapped != 0 || aread.Ref == nil || aread.Ref.Len() <= 0 {
		return strand.Undetermined, false
	}
	arm := "q"
	if aread.Start()+(aread.End()-aread.Start())/2 < aread.Ref.Len()/2 {
		arm = "p"
	}
	str := "+"
	if aread.Strand() == -1 {
		str = "-"
	}
	call, err := strand.FromArm(arm, str)
	if err != nil {
		return strand.Undetermined, false
	}
	return call, true
}

func (r *Reader) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
