//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package composition

// Default tables are built on each call: callers own the returned slice.

// DefaultG returns the expected composition of a G-strand (3' end, TTAGGG) telomere.
func DefaultG() Table {
	return Table{
		MustPattern("GGG", 3./6., 0),
		MustPattern("TTAGGG", 1, 0),
	}
}

// DefaultC returns the expected composition of a C-strand (5' end, CCCTAA) telomere.
func DefaultC() Table {
	return Table{
		MustPattern("CCC", 3./6., 0),
		MustPattern("CCCTAA", 1, 0),
	}
}

// TeloNPG returns the G-strand table for nanopore reads, where basecalling
// errors produce frequent variant repeats.
func TeloNPG() Table {
	return Table{
		MustPattern("GGG", 3./6., 0),
		MustPattern("TTAGGG|TTGGGG|TGAGGG|TTAAGG", 1, 6),
	}
}

// TeloNPC returns the C-strand table for nanopore reads.
func TeloNPC() Table {
	return Table{
		MustPattern("CCC", 3./6., 0),
		MustPattern("CCCTAA|CCCCAA|CCCTCA|CCTTAA", 1, 6),
	}
}
