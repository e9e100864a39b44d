//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package fastx reads and writes sequence records.
package fastx

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/bgzf"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

const lineWidth = 60

type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// RecordReader is a sequence source. Read returns io.EOF after the last record.
type RecordReader interface {
	Read() (*Record, error)
}

// Reader reads FASTA records.
type Reader struct {
	sc *seqio.Scanner
}

func NewReader(r io.Reader) *Reader {
	return &Reader{sc: seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))}
}

func (r *Reader) Read() (*Record, error) {
	if !r.sc.Next() {
		if err := r.sc.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	s := r.sc.Seq().(*linear.Seq)
	return &Record{ID: s.Name(), Desc: s.Description(), Seq: alphabet.LettersToBytes(s.Seq)}, nil
}

// Writer writes FASTA records.
type Writer struct {
	w       *fasta.Writer
	closers []io.Closer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: fasta.NewWriter(w, lineWidth)}
}

// Create creates path ("-" for stdout). Output is compressed according to the
// extension: ".gz" (BGZF, using nWorker goroutines), ".zst" or ".lz4".
func Create(path string, nWorker int) (*Writer, error) {
	var out io.Writer
	var closers []io.Closer
	if path == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		out = f
		closers = append(closers, f)
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		bw := bgzf.NewWriter(out, max(1, nWorker))
		out = bw
		closers = append([]io.Closer{bw}, closers...)
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(out)
		if err != nil {
			for _, c := range closers {
				c.Close()
			}
			return nil, err
		}
		out = zw
		closers = append([]io.Closer{zw}, closers...)
	case strings.HasSuffix(path, ".lz4"):
		lw := lz4.NewWriter(out)
		out = lw
		closers = append([]io.Closer{lw}, closers...)
	}
	w := NewWriter(out)
	w.closers = closers
	return w, nil
}

func (w *Writer) Write(r *Record) error {
	s := linear.NewSeq(r.ID, alphabet.BytesToLetters(r.Seq), alphabet.DNAredundant)
	s.Desc = r.Desc
	_, err := w.w.Write(s)
	return err
}

// Close flushes compressed output and closes the underlying file.
func (w *Writer) Close() error {
	var err error
	for _, c := range w.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// RevComp returns the reverse complement of seq.
func RevComp(seq []byte) []byte {
	s := linear.NewSeq("", alphabet.BytesToLetters(append([]byte(nil), seq...)), alphabet.DNAredundant)
	s.RevComp()
	return alphabet.LettersToBytes(s.Seq)
}
