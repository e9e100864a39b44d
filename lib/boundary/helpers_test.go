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
)

// filler returns n pseudo-random nucleotides drawn from alpha (deterministic).
func filler(n int, alpha string) []byte {
	x := uint64(1)
	out := make([]byte, n)
	for i := range out {
		x = (x*1103515245 + 12345) % (1 << 31)
		out[i] = alpha[(x>>16)%uint64(len(alpha))]
	}
	return out
}

func repeat(s string, n int) []byte {
	return bytes.Repeat([]byte(s), n)
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// gSeq ends with a 1200 nt TTAGGG telomere.
func gSeq() []byte {
	return concat(filler(3000, "ACT"), repeat("TTAGGG", 200))
}

// cSeq starts with a 1200 nt CCCTAA telomere.
func cSeq() []byte {
	return concat(repeat("CCCTAA", 200), filler(3000, "AGT"))
}

type graphRecorder struct {
	labels     []string
	boundaries []int
	lengths    []int
}

func (g *graphRecorder) Add(label string, area []float64, windowStep int, boundary int) {
	g.labels = append(g.labels, label)
	g.boundaries = append(g.boundaries, boundary)
	g.lengths = append(g.lengths, len(area))
}
