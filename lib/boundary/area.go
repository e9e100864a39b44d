//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package boundary

import (
	"math"
)

// Area smooths the offsets of pattern col. Value k is the mean offset of the
// window positions [k, k+window), truncated at the end of the series, i.e. how
// much telomere signal is left ahead of position k. The window looks ahead of
// k, not behind it, so that the drop is seen at the boundary itself.
func Area(offsets Offsets, col, window int) []float64 {
	if window < 1 {
		window = 1
	}
	values := offsets.Column(col)
	n := len(values)
	area := make([]float64, n)
	for k := 0; k < n; k++ {
		end := min(n, k+window)
		var sum float64
		for _, v := range values[k:end] {
			sum += v
		}
		area[k] = sum / float64(end-k)
	}
	return area
}

// Slopes returns the first difference of area.
func Slopes(area []float64) []float64 {
	if len(area) < 2 {
		return nil
	}
	slopes := make([]float64, len(area)-1)
	for i := range slopes {
		slopes[i] = area[i+1] - area[i]
	}
	return slopes
}

// Discontinuity returns the first index where the area is below
// plateauThreshold and decreasing, or -1.
//
// If last is true, the search starts from the last index where the area is
// above changeThreshold and decreasing, skipping early false drops in noisy
// signals. When such an index exists but no drop below plateauThreshold
// follows it, that index is returned.
func Discontinuity(area, slopes []float64, changeThreshold, plateauThreshold float64, last bool) int {
	below := func(from int) int {
		for y := from; y < len(area)-2; y++ {
			if area[y] < plateauThreshold && slopes[y] < 0 {
				return y
			}
		}
		return -1
	}
	if last {
		for y := len(area) - 2; y > 0; y-- {
			if area[y] > changeThreshold && slopes[y] < 0 {
				if b := below(y); b != -1 {
					return b
				}
				return y
			}
		}
	}
	return below(0)
}

// Plateau returns the first index from which the slope stabilizes under
// threshold, or jumps over it. ok is false if the series ends first.
func Plateau(slopes []float64, from int, threshold float64) (int, bool) {
	for x := from; x < len(slopes)-1; x++ {
		if math.Abs(slopes[x]) < threshold || (slopes[x] < threshold && slopes[x+1] > threshold) {
			return x, true
		}
	}
	return len(slopes), false
}
