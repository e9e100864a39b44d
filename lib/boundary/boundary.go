//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package boundary locates the boundary between a telomere and the adjacent
// sequence from the composition of sliding windows.
package boundary

import (
	"git.sr.ht/~vejnar/TeloBP/lib/composition"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

// Locate returns the telomere length of seq. The strand is inferred from seq
// unless set in p. Failures are reported in the Result, never as panics.
func Locate(seq []byte, p Params) Result {
	log := p.Logger
	if err := p.Validate(); err != nil {
		log.Warn().Err(err).Msg("Initial validation failed for read")
		return Result{Kind: Validation, Err: err}
	}
	if err := checkWindow(len(seq), p.TeloWindow, p.WindowStep); err != nil {
		log.Warn().Err(err).Msg("Initial validation failed for read")
		return Result{Kind: Validation, Err: err}
	}

	// Strand
	call := p.Strand
	if call == strand.Undetermined {
		g, _ := p.CompositionG.Target(p.TargetPatternIndex)
		c, _ := p.CompositionC.Target(p.TargetPatternIndex)
		call = strand.Classify(seq, g, c, p.Classifier)
		switch call {
		case strand.Fused:
			log.Warn().Msg("Fused strand likely")
			return Result{Kind: FusedRead}
		case strand.Undetermined:
			log.Warn().Msg("Could not determine telomere strand type from sequence")
			return Result{Kind: StrandUndetermined}
		}
	}

	// Primary search
	table := p.table(call)
	res, area := coarse(seq, call, table, p)
	switch res.Kind {
	case Validation:
		log.Warn().Err(res.Err).Msg("Initial validation failed for read")
	case NoBoundary:
		log.Warn().Msg("No telomere boundary found")
	}
	if res.ReachedEnd {
		log.Debug().Int("boundary", res.Position).Msg("Sequence was not long enough to find the end of the telomere, returning end of signal as boundary")
	}

	// Secondary search
	if res.OK() && p.SecondarySearch {
		res = refine(seq, res, table, p)
	}

	// Graph
	if p.Graph != nil && area != nil {
		marker := -1
		if res.OK() {
			marker = res.Position
		}
		target, _ := table.Target(p.TargetPatternIndex)
		p.Graph.Add(target.String()+" Area", area, p.WindowStep, marker)
	}
	return res
}

// coarse runs the scan, area and detection steps with a known strand. It
// never refines: the secondary search calls it on a sub-sequence, which
// bounds refinement to one level.
func coarse(seq []byte, call strand.Call, table composition.Table, p Params) (Result, []float64) {
	col, err := table.Index(p.TargetPatternIndex)
	if err != nil {
		return Result{Kind: Validation, Err: err}, nil
	}
	offsets, err := Scan(seq, call == strand.G, table, p.TeloWindow, p.WindowStep)
	if err != nil {
		return Result{Kind: Validation, Err: err}, nil
	}
	area := Area(offsets, col, p.areaWindow())
	slopes := Slopes(area)
	disc := Discontinuity(area, slopes, p.ChangeThreshold, p.PlateauThreshold, p.LastDiscontinuity)
	if disc == -1 {
		return Result{Kind: NoBoundary, Err: ErrNoDiscontinuity}, area
	}
	x, ok := Plateau(slopes, disc, p.SlopeThreshold)
	return Result{Kind: Found, Position: x * p.WindowStep, Strand: call, ReachedEnd: !ok}, area
}
