//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package boundary

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"git.sr.ht/~vejnar/TeloBP/lib/composition"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

var (
	ErrInvalidParams   = errors.New("boundary: invalid parameters")
	ErrShortSequence   = errors.New("boundary: sequence shorter than telomere window")
	ErrNoDiscontinuity = errors.New("boundary: no discontinuity in telomere signal")
)

// GraphSink receives the area series computed for a sequence. boundary is -1
// when no boundary was found.
type GraphSink interface {
	Add(label string, area []float64, windowStep int, boundary int)
}

type Params struct {
	// Strand of the telomere. Undetermined infers it from the sequence.
	Strand       strand.Call
	CompositionG composition.Table
	CompositionC composition.Table
	// Window size used to compute the composition offsets
	TeloWindow int
	// Step between two consecutive windows
	WindowStep int
	// Area above which the signal is still telomeric (only used with LastDiscontinuity)
	ChangeThreshold float64
	// Area below which the plateau of the signal is searched
	PlateauThreshold float64
	// Pattern of the composition tables used to find the boundary (negative counts from the end)
	TargetPatternIndex int
	// Number of nucleotides averaged in the area series. Must look well past
	// the boundary for the discontinuity to be sustained.
	AreaWindowSize int
	// Slope under which the area series is considered flat
	SlopeThreshold float64
	// Return the last discontinuity instead of the first (noisy sequences)
	LastDiscontinuity bool
	// Refine the boundary on a narrow window around it
	SecondarySearch bool
	Classifier      strand.Params
	Logger          zerolog.Logger
	Graph           GraphSink
}

// DefaultParams returns the parameters of a single read or chromosome arm
// search with the default telomere compositions.
func DefaultParams() Params {
	return Params{
		CompositionG:       composition.DefaultG(),
		CompositionC:       composition.DefaultC(),
		TeloWindow:         100,
		WindowStep:         6,
		ChangeThreshold:    -20,
		PlateauThreshold:   -50,
		TargetPatternIndex: -1,
		AreaWindowSize:     500,
		SlopeThreshold:     0.1,
		Classifier:         strand.DefaultParams(),
		Logger:             zerolog.Nop(),
	}
}

// TeloNPParams returns the parameters tuned for nanopore reads.
func TeloNPParams() Params {
	p := DefaultParams()
	p.CompositionG = composition.TeloNPG()
	p.CompositionC = composition.TeloNPC()
	p.PlateauThreshold = -60
	p.AreaWindowSize = 750
	p.LastDiscontinuity = true
	p.SecondarySearch = true
	return p
}

// Validate checks parameters independent of the sequence.
func (p Params) Validate() error {
	if p.TeloWindow <= 0 {
		return fmt.Errorf("%w: telomere window must be positive (%d)", ErrInvalidParams, p.TeloWindow)
	}
	if p.WindowStep <= 0 {
		return fmt.Errorf("%w: window step must be positive (%d)", ErrInvalidParams, p.WindowStep)
	}
	if p.AreaWindowSize < p.WindowStep {
		return fmt.Errorf("%w: area window (%d) smaller than window step (%d)", ErrInvalidParams, p.AreaWindowSize, p.WindowStep)
	}
	switch p.Strand {
	case strand.Undetermined, strand.G, strand.C:
	default:
		return fmt.Errorf("%w: strand %s", ErrInvalidParams, p.Strand)
	}
	for _, t := range []composition.Table{p.CompositionG, p.CompositionC} {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		if _, err := t.Index(p.TargetPatternIndex); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
	}
	return nil
}

func (p Params) table(c strand.Call) composition.Table {
	if c == strand.G {
		return p.CompositionG
	}
	return p.CompositionC
}

// areaWindow is the area window in number of steps.
func (p Params) areaWindow() int {
	return p.AreaWindowSize / p.WindowStep
}

// refineParams returns the parameters of the secondary search.
func (p Params) refineParams(c strand.Call) Params {
	q := p
	q.Strand = c
	q.TeloWindow = 90
	q.WindowStep = 6
	q.PlateauThreshold = -60
	q.TargetPatternIndex = -1
	q.AreaWindowSize = 100
	q.SecondarySearch = false
	q.Graph = nil
	return q
}
