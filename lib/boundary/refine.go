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
	"regexp"

	"git.sr.ht/~vejnar/TeloBP/lib/cmapper"
	"git.sr.ht/~vejnar/TeloBP/lib/composition"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

const (
	refineTelomereFlank    = 500  // Toward the telomere
	refineSubtelomereFlank = 1000 // Toward the centromere
	refineMinLength        = 100
	refineMatchFlank       = 30
)

func direction(c strand.Call) int8 {
	if c == strand.G {
		return -1
	}
	return 1
}

// refine searches the boundary again at a finer resolution around res, then
// snaps it to the junction of two back-to-back repeats. Any failure returns
// the closest result obtained so far.
func refine(seq []byte, res Result, table composition.Table, p Params) Result {
	log := p.Logger
	dir := direction(res.Strand)

	// Sub-sequence around the boundary
	cm := cmapper.NewBracket(len(seq), dir, res.Position, refineTelomereFlank, refineSubtelomereFlank)
	if cm.Length < refineMinLength {
		log.Debug().Int("length", cm.Length).Msg("Sequence was not long enough to perform secondary search, returning original boundary point")
		return res
	}
	sub, _ := coarse(cm.Slice(seq), res.Strand, table, p.refineParams(res.Strand))
	if !sub.OK() {
		log.Debug().Stringer("kind", sub.Kind).Msg("Secondary search failed, returning original boundary point")
		return res
	}
	pos := cm.Window2Seq(sub.Position)

	// Exact match of two repeats
	target, _ := table.Target(-1)
	if res.Strand == strand.C && target.Fraction != 1 {
		log.Warn().Str("pattern", target.String()).Msg("Secondary search is not compatible with telomere compositions less than 1, returning original boundary point")
		return res
	}
	expr := "(" + target.Rule.Expr() + ")"
	pair := regexp.MustCompile(expr + expr)
	mm := cmapper.NewBracket(len(seq), dir, pos, refineMatchFlank, refineMatchFlank)
	window := bytes.ToUpper(mm.Slice(seq))
	res.Position = pos
	if res.Strand == strand.G {
		// First pair from the sequence start is the most internal repeat
		if loc := pair.FindIndex(window); loc != nil {
			res.Position = mm.Window2Seq(len(window) - loc[0])
			return res
		}
	} else {
		if locs := pair.FindAllIndex(window, -1); len(locs) > 0 {
			res.Position = mm.Window2Seq(locs[len(locs)-1][1])
			return res
		}
	}
	log.Debug().Int("boundary", pos).Msg("Secondary search failed to find a match, returning refined boundary point")
	return res
}
