//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package strand

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"git.sr.ht/~vejnar/TeloBP/lib/composition"
)

// Call is the telomere polarity inferred from a sequence.
type Call int

const (
	Undetermined Call = iota
	G                 // G-rich repeat at the 3' end
	C                 // C-rich repeat at the 5' end
	Fused             // Both ends carry a telomere
)

func (c Call) String() string {
	switch c {
	case G:
		return "G"
	case C:
		return "C"
	case Fused:
		return "fused"
	}
	return "undetermined"
}

// repeatGap is the maximum number of nucleotides allowed between two repeats.
const repeatGap = ".{0,6}"

type Params struct {
	SearchRepeats  int // Consecutive repeats required for a match
	MinCountDiff   int
	FusedThreshold int
	MaxGap         int // Maximum distance between the starts of two counted matches
}

func DefaultParams() Params {
	return Params{SearchRepeats: 4, MinCountDiff: 1, FusedThreshold: 20, MaxGap: 150}
}

type tally struct {
	count  int
	length int
}

// RepeatExpr returns an expression matching n occurrences of rule, each separated by at most 6 nucleotides.
func RepeatExpr(rule composition.Matcher, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "(" + rule.Expr() + ")"
	}
	return strings.Join(parts, repeatGap)
}

// countContiguous counts matches whose start is within maxGap of the previous
// match start. Matches are walked from the sequence end if reverse.
func countContiguous(locs [][]int, reverse bool, maxGap int) (t tally) {
	var last int
	for i := range locs {
		loc := locs[i]
		if reverse {
			loc = locs[len(locs)-1-i]
		}
		if i == 0 {
			last = loc[0]
		}
		gap := loc[0] - last
		if gap < 0 {
			gap = -gap
		}
		if gap <= maxGap {
			t.count++
			t.length += loc[1] - loc[0]
		}
		last = loc[0]
	}
	return
}

// Classify infers whether seq has a C-strand telomere at its start or a G-strand
// telomere at its end by counting consecutive repeats of the target patterns
// of each strand.
func Classify(seq []byte, g, c composition.Pattern, p Params) Call {
	if p.SearchRepeats < 1 {
		p.SearchRepeats = 1
	}
	useq := bytes.ToUpper(seq)
	cre := regexp.MustCompile(RepeatExpr(c.Rule, p.SearchRepeats))
	gre := regexp.MustCompile(RepeatExpr(g.Rule, p.SearchRepeats))
	ct := countContiguous(cre.FindAllIndex(useq, -1), false, p.MaxGap)
	gt := countContiguous(gre.FindAllIndex(useq, -1), true, p.MaxGap)

	diff := abs(ct.count - gt.count)
	// Few matches on both strands: last chance to classify short reads using matched lengths
	if max(ct.count, gt.count) <= p.MinCountDiff && diff <= p.MinCountDiff {
		if ct.length > gt.length {
			return C
		} else if gt.length > ct.length {
			return G
		}
		return Undetermined
	}
	low := min(ct.count, gt.count)
	if low > 100 || float64(diff) <= 0.6*float64(low) || low >= p.FusedThreshold {
		return Fused
	}
	if ct.count > gt.count {
		return C
	}
	return G
}

// FromArm returns the telomere polarity of a read aligned on strand ("+" or "-")
// at the end of a chromosome arm ("p" or "q").
func FromArm(arm, strand string) (Call, error) {
	switch {
	case strand == "+" && arm == "q", strand == "-" && arm == "p":
		return G, nil
	case strand == "+" && arm == "p", strand == "-" && arm == "q":
		return C, nil
	}
	return Undetermined, fmt.Errorf("could not identify strand from arm %q and strand %q", arm, strand)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
