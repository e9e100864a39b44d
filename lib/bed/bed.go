//
// Copyright (C) 2015-2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package bed writes telomere annotations and reads the tabulated files used
// to annotate records.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4"
)

const (
	NameC = "telomere_C"
	NameG = "telomere_G"
)

// Row is a BED interval (0-based [Start,End)).
type Row struct {
	Chrom      string
	Start, End int
	Name       string
}

func (r Row) Length() int {
	return r.End - r.Start
}

// TrimRows returns the telomere spans of a record of length l with startTrim
// nucleotides of C-strand telomere and endTrim nucleotides of G-strand telomere.
// Empty spans are omitted.
func TrimRows(chrom string, l, startTrim, endTrim int) (rows []Row) {
	if startTrim > 0 {
		rows = append(rows, Row{Chrom: chrom, Start: 0, End: min(startTrim, l), Name: NameC})
	}
	if endTrim > 0 {
		rows = append(rows, Row{Chrom: chrom, Start: max(0, l-endTrim), End: l, Name: NameG})
	}
	return
}

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// Writer is an annotation sink. Chromosome names are translated with Mapping if set.
type Writer struct {
	Mapping map[string]string
	w       *bufio.Writer
	writers []GenericWriter
}

// Create creates a BED file, lz4-compressed if path ends with ".lz4".
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &Writer{writers: []GenericWriter{f}}
	if strings.HasSuffix(path, ".lz4") {
		w.writers = append([]GenericWriter{lz4.NewWriter(f)}, w.writers...)
	}
	w.w = bufio.NewWriter(w.writers[0])
	return w, nil
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(r Row) error {
	chrom := r.Chrom
	if len(w.Mapping) > 0 {
		chrom = MapName(chrom, w.Mapping)
	}
	_, err := fmt.Fprintf(w.w, "%s\t%d\t%d\t%s\n", chrom, r.Start, r.End, r.Name)
	return err
}

// WriteTrim writes the telomere spans of a record (see TrimRows).
func (w *Writer) WriteTrim(chrom string, l, startTrim, endTrim int) error {
	for _, r := range TrimRows(chrom, l, startTrim, endTrim) {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Close() error {
	err := w.w.Flush()
	for _, gw := range w.writers {
		if cerr := gw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
