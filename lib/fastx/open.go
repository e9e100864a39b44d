//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package fastx

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLz4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens path ("-" for stdin) and transparently decompresses gzip (and
// BGZF), zstd and lz4 inputs, detected by magic number or file extension.
// If not nil, wrap is applied to the raw (compressed) stream, e.g. to track progress.
func Open(path string, wrap func(io.Reader) io.Reader) (io.ReadCloser, error) {
	var raw io.Reader
	var closers []io.Closer
	if path == "-" {
		raw = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		raw = f
		closers = append(closers, f)
	}
	if wrap != nil {
		raw = wrap(raw)
	}
	r, err := Decompress(raw, path)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, err
	}
	if rc, ok := r.(io.ReadCloser); ok {
		closers = append([]io.Closer{rc}, closers...)
	}
	return &multiReadCloser{Reader: r, closers: closers}, nil
}

// Decompress returns a decompressing reader of r if its content (or name) is compressed.
func Decompress(r io.Reader, name string) (io.Reader, error) {
	br := bufio.NewReader(r)
	sig, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(sig, magicGzip) || strings.HasSuffix(name, ".gz"):
		return gzip.NewReader(br)
	case bytes.HasPrefix(sig, magicZstd) || strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case bytes.HasPrefix(sig, magicLz4) || strings.HasSuffix(name, ".lz4"):
		return lz4.NewReader(br), nil
	}
	return br, nil
}
