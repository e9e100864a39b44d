//
// Copyright (C) 2015-2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package graph stores and writes the area series computed while locating
// telomere boundaries.
package graph

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/adler32"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pierrec/lz4"
)

const (
	bedGraphPrecision = 0.000001
	binaryVersion     = 1
)

var (
	ErrFormat   = errors.New("graph: unknown format")
	ErrChecksum = errors.New("graph: checksum mismatch")
)

// Series is an area series. Value k covers positions [k*WindowStep, (k+1)*WindowStep)
// from the telomere end. Boundary is -1 if no boundary was found.
type Series struct {
	Name       string
	Area       []float64
	WindowStep int
	Boundary   int
}

// Collector collects the series of one sequence. Name prefixes the labels of the series.
type Collector struct {
	Name   string
	Series []Series
}

func (c *Collector) Add(label string, area []float64, windowStep int, boundary int) {
	name := label
	if c.Name != "" {
		name = c.Name + " " + label
	}
	c.Series = append(c.Series, Series{Name: name, Area: area, WindowStep: windowStep, Boundary: boundary})
}

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// Writer writes series in "bedgraph", "csv" or "binary" format. A compression
// can be appended to the format ("bedgraph+lz4" or "bedgraph+lz4hc").
type Writer struct {
	format  string
	bw      *bufio.Writer
	writers []GenericWriter
}

// Create creates path ("-" for stdout).
func Create(path, format string) (*Writer, error) {
	var zip string
	if strings.Contains(format, "+") {
		doubleFormat := strings.SplitN(format, "+", 2)
		format, zip = doubleFormat[0], doubleFormat[1]
	}
	switch format {
	case "bedgraph", "csv", "binary":
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, format)
	}
	var f GenericWriter
	if path == "-" {
		f = nopCloser{os.Stdout}
	} else {
		var err error
		if f, err = os.Create(path); err != nil {
			return nil, err
		}
	}
	w := &Writer{format: format, writers: []GenericWriter{f}}
	switch zip {
	case "lz4":
		w.writers = append([]GenericWriter{lz4.NewWriter(f)}, w.writers...)
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		w.writers = append([]GenericWriter{lzWriter}, w.writers...)
	case "":
	default:
		f.Close()
		return nil, fmt.Errorf("%w: compression %s", ErrFormat, zip)
	}
	w.bw = bufio.NewWriter(w.writers[0])
	if format == "binary" {
		if err := binary.Write(w.bw, binary.LittleEndian, uint8(binaryVersion)); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Writer) Write(s Series) error {
	switch w.format {
	case "bedgraph":
		return writeBedGraph(w.bw, s)
	case "csv":
		return writeCSV(w.bw, s)
	}
	return writeBinary(w.bw, s)
}

func (w *Writer) Close() error {
	err := w.bw.Flush()
	for _, gw := range w.writers {
		if cerr := gw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// writeBedGraph merges consecutive windows of equal value. The boundary is
// written as a comment preceding the series.
func writeBedGraph(w io.Writer, s Series) error {
	if _, err := fmt.Fprintf(w, "#%s\tboundary=%d\n", s.Name, s.Boundary); err != nil {
		return err
	}
	var stepStart int
	for i := 1; i <= len(s.Area); i++ {
		if i < len(s.Area) && math.Abs(s.Area[i]-s.Area[stepStart]) <= bedGraphPrecision {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%f\n", s.Name, stepStart*s.WindowStep, i*s.WindowStep, s.Area[stepStart]); err != nil {
			return err
		}
		stepStart = i
	}
	return nil
}

func writeCSV(w io.Writer, s Series) error {
	values := make([]string, len(s.Area))
	for i, v := range s.Area {
		values[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	_, err := fmt.Fprintf(w, "%q,%d,%d,%d,%s\n", s.Name, s.WindowStep, s.Boundary, len(s.Area), strings.Join(values, ","))
	return err
}

// writeBinary writes a series as: name length (uint32), name, window step
// (int32), boundary (int32), number of values (uint32), values (float32) and
// the Adler-32 checksum of the values.
func writeBinary(w io.Writer, s Series) error {
	values := make([]float32, len(s.Area))
	for i, v := range s.Area {
		values[i] = float32(v)
	}
	checksum := adler32.New()
	if err := binary.Write(checksum, binary.LittleEndian, values); err != nil {
		return err
	}
	for _, v := range []any{uint32(len(s.Name)), []byte(s.Name), int32(s.WindowStep), int32(s.Boundary), uint32(len(values)), values, checksum.Sum32()} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadBinary reads the series written in binary format.
func ReadBinary(r io.Reader) (series []Series, err error) {
	br := bufio.NewReader(r)
	var version uint8
	if err = binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != binaryVersion {
		return nil, fmt.Errorf("graph: unknown binary version %d", version)
	}
	for {
		var nameLength uint32
		if err = binary.Read(br, binary.LittleEndian, &nameLength); err == io.EOF {
			return series, nil
		} else if err != nil {
			return nil, err
		}
		name := make([]byte, nameLength)
		var windowStep, boundary int32
		var n, checksum uint32
		for _, v := range []any{name, &windowStep, &boundary, &n} {
			if err = binary.Read(br, binary.LittleEndian, v); err != nil {
				return nil, err
			}
		}
		values := make([]float32, n)
		if err = binary.Read(br, binary.LittleEndian, values); err != nil {
			return nil, err
		}
		if err = binary.Read(br, binary.LittleEndian, &checksum); err != nil {
			return nil, err
		}
		h := adler32.New()
		binary.Write(h, binary.LittleEndian, values)
		if h.Sum32() != checksum {
			return nil, fmt.Errorf("%w: %s", ErrChecksum, name)
		}
		s := Series{Name: string(name), WindowStep: int(windowStep), Boundary: int(boundary), Area: make([]float64, n)}
		for i, v := range values {
			s.Area[i] = float64(v)
		}
		series = append(series, s)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
