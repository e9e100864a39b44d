//
// Copyright (C) 2015-2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package bed

import (
	"github.com/biogo/store/interval"
)

// Trees indexes rows by chromosome.
type Trees map[string]*interval.IntTree

// BuildTrees builds one interval tree per chromosome. Empty rows are ignored.
func BuildTrees(rows []Row) (Trees, error) {
	trees := make(Trees)
	for i, r := range rows {
		if err := trees.insert(r, uintptr(i)); err != nil {
			return nil, err
		}
	}
	trees.adjust()
	return trees, nil
}

func (t Trees) insert(r Row, uid uintptr) error {
	if r.Length() <= 0 {
		return nil
	}
	// New tree for unseen chromosome
	if _, ok := t[r.Chrom]; !ok {
		t[r.Chrom] = &interval.IntTree{}
	}
	return t[r.Chrom].Insert(IntInterval{Start: r.Start, End: r.End, UID: uid, Row: r}, true)
}

func (t Trees) adjust() {
	for _, tree := range t {
		tree.AdjustRanges()
	}
}

// Overlapping returns the rows overlapping r, excluding r itself, with the overlap length.
func (t Trees) Overlapping(r Row) (rows []Row, lengths []int) {
	tree, ok := t[r.Chrom]
	if !ok || r.Length() <= 0 {
		return
	}
	query := IntInterval{Start: r.Start, End: r.End}
	for _, iv := range tree.Get(query) {
		other := iv.(IntInterval)
		if other.Row == r {
			continue
		}
		rows = append(rows, other.Row)
		lengths = append(lengths, other.OverlapLength(query.Range()))
	}
	return
}

// SpansOverlap reports whether the C-strand and G-strand telomere spans of a
// record overlap, i.e. the record is telomere from end to end.
func SpansOverlap(rows []Row) bool {
	trees, err := BuildTrees(rows)
	if err != nil {
		return false
	}
	for _, r := range rows {
		if o, _ := trees.Overlapping(r); len(o) > 0 {
			return true
		}
	}
	return false
}
