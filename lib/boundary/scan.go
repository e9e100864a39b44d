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
	"fmt"

	"git.sr.ht/~vejnar/TeloBP/lib/composition"
)

// Offsets holds one composition offset per pattern for each window position.
type Offsets [][]float64

// Column returns the offsets of pattern col.
func (o Offsets) Column(col int) []float64 {
	c := make([]float64, len(o))
	for i := range o {
		c[i] = o[i][col]
	}
	return c
}

func checkWindow(length, teloWindow, windowStep int) error {
	if teloWindow <= 0 || windowStep <= 0 {
		return fmt.Errorf("%w: window %d, step %d", ErrInvalidParams, teloWindow, windowStep)
	}
	if length < teloWindow {
		return fmt.Errorf("%w: %d < %d", ErrShortSequence, length, teloWindow)
	}
	return nil
}

// Scan slides a window of teloWindow nucleotides every windowStep and computes
// the offset of each pattern of table. G-strand windows start at the end of
// seq and move inward, C-strand windows start at the beginning.
func Scan(seq []byte, gStrand bool, table composition.Table, teloWindow, windowStep int) (Offsets, error) {
	if err := checkWindow(len(seq), teloWindow, windowStep); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	useq := bytes.ToUpper(seq)
	n := len(useq)
	offsets := make(Offsets, 0, (n-teloWindow)/windowStep+1)
	for i := 0; i+teloWindow <= n; i += windowStep {
		var window []byte
		if gStrand {
			window = useq[n-i-teloWindow : n-i]
		} else {
			window = useq[i : i+teloWindow]
		}
		row := make([]float64, len(table))
		for j, p := range table {
			row[j] = p.Offset(window)
		}
		offsets = append(offsets, row)
	}
	return offsets, nil
}
