//
// Copyright (C) 2015-2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package bed

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

func openTab(tpath string, ncol int, fn func(fields []string) error) error {
	tfos, err := os.Open(tpath)
	if err != nil {
		return err
	}
	defer tfos.Close()

	var iline int
	tscanner := bufio.NewScanner(tfos)
	for tscanner.Scan() {
		iline++
		line := tscanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < ncol {
			return fmt.Errorf("%s:%d: expected %d columns, found %d", tpath, iline, ncol, len(fields))
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("%s:%d: %w", tpath, iline, err)
		}
	}
	return tscanner.Err()
}

// OpenMapping reads a two columns tabulated file of name and new name.
func OpenMapping(mpath string) (map[string]string, error) {
	m := make(map[string]string)
	err := openTab(mpath, 2, func(fields []string) error {
		m[fields[0]] = fields[1]
		return nil
	})
	return m, err
}

func MapName(name string, m map[string]string) string {
	if nn, ok := m[name]; ok {
		return nn
	}
	return name
}

// OpenHints reads a three columns tabulated file of read name, chromosome arm
// (p or q) and alignment strand (+ or -), and returns the telomere polarity of each read.
func OpenHints(hpath string) (map[string]strand.Call, error) {
	hints := make(map[string]strand.Call)
	err := openTab(hpath, 3, func(fields []string) error {
		call, err := strand.FromArm(fields[1], fields[2])
		if err != nil {
			return err
		}
		hints[fields[0]] = call
		return nil
	})
	return hints, err
}
