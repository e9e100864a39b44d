//
// Copyright (C) 2015-2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/TeloBP/lib/boundary"
)

// Report counts the outcome of each boundary search.
type Report struct {
	Records    uint64                       `json:"records"`
	Distinct   int                          `json:"distinct_ids"`
	Duplicates []string                     `json:"duplicate_ids,omitempty"`
	Status     map[string]map[string]uint64 `json:"status"`
	Overlap    uint64                       `json:"overlap,omitempty"`
	Trimmed    uint64                       `json:"trimmed_nucleotides,omitempty"`
	ids        set.Interface
	duplicates set.Interface
}

func NewReport() *Report {
	return &Report{
		Status:     make(map[string]map[string]uint64),
		ids:        set.New(set.NonThreadSafe),
		duplicates: set.New(set.NonThreadSafe),
	}
}

func (r *Report) AddID(id string) {
	r.Records++
	if r.ids.Has(id) {
		r.duplicates.Add(id)
	}
	r.ids.Add(id)
}

// AddResult counts res under end (e.g. "C", "G" or "read").
func (r *Report) AddResult(end string, res boundary.Result) {
	if _, ok := r.Status[end]; !ok {
		r.Status[end] = make(map[string]uint64)
	}
	r.Status[end][res.Kind.String()]++
}

func (r *Report) finalize() {
	r.Distinct = r.ids.Size()
	r.Duplicates = r.Duplicates[:0]
	for _, d := range r.duplicates.List() {
		r.Duplicates = append(r.Duplicates, d.(string))
	}
	sort.Strings(r.Duplicates)
}

func WriteReport(pathReport string, r *Report) error {
	r.finalize()
	report, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if pathReport != "-" {
		return os.WriteFile(pathReport, append(report, '\n'), 0666)
	}
	fmt.Println(string(report))
	return nil
}
