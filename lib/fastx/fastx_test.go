//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package fastx

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

var records = []*Record{
	{ID: "chr1", Desc: "test chromosome", Seq: []byte(strings.Repeat("CCCTAA", 30) + strings.Repeat("ACGTN", 20))},
	{ID: "chr2", Seq: []byte("ttagggTTAGGG")},
}

func readAll(c *qt.C, rr RecordReader) []*Record {
	var out []*Record
	for {
		r, err := rr.Read()
		if err == io.EOF {
			break
		}
		c.Assert(err, qt.IsNil)
		out = append(out, r)
	}
	return out
}

func TestReadWrite(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, r := range records {
		c.Assert(w.Write(r), qt.IsNil)
	}
	c.Assert(strings.HasPrefix(buf.String(), ">chr1 test chromosome\n"), qt.IsTrue)

	got := readAll(c, NewReader(&buf))
	c.Assert(got, qt.DeepEquals, records)
}

func TestReadEmpty(t *testing.T) {
	c := qt.New(t)
	_, err := NewReader(strings.NewReader("")).Read()
	c.Assert(err, qt.Equals, io.EOF)
}

func TestCompressed(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	for _, ext := range []string{".fa", ".fa.gz", ".fa.zst", ".fa.lz4"} {
		c.Run(ext, func(c *qt.C) {
			path := filepath.Join(dir, "seq"+ext)
			w, err := Create(path, 2)
			c.Assert(err, qt.IsNil)
			for _, r := range records {
				c.Assert(w.Write(r), qt.IsNil)
			}
			c.Assert(w.Close(), qt.IsNil)

			var nRead int
			f, err := Open(path, func(r io.Reader) io.Reader {
				return readCounter{r: r, n: &nRead}
			})
			c.Assert(err, qt.IsNil)
			defer f.Close()
			c.Assert(readAll(c, NewReader(f)), qt.DeepEquals, records)
			c.Assert(nRead > 0, qt.IsTrue)
		})
	}
}

type readCounter struct {
	r io.Reader
	n *int
}

func (rc readCounter) Read(p []byte) (int, error) {
	n, err := rc.r.Read(p)
	*rc.n += n
	return n, err
}
