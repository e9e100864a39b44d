//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"git.sr.ht/~vejnar/TeloBP/lib/bed"
	"git.sr.ht/~vejnar/TeloBP/lib/boundary"
	"git.sr.ht/~vejnar/TeloBP/lib/config"
	"git.sr.ht/~vejnar/TeloBP/lib/esam"
	"git.sr.ht/~vejnar/TeloBP/lib/fastx"
	"git.sr.ht/~vejnar/TeloBP/lib/graph"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

type readsOptions struct {
	pathInput   string
	pathOutput  string
	pathHints   string
	pathGraph   string
	graphFormat string
	strandRaw   string
	alignHints  bool
}

const readsHeader = "name\tlength\tboundary\tstrand\tstatus\n"

func parseStrand(strandRaw string) (strand.Call, error) {
	switch strings.ToUpper(strandRaw) {
	case "":
		return strand.Undetermined, nil
	case "G":
		return strand.G, nil
	case "C":
		return strand.C, nil
	}
	return strand.Undetermined, fmt.Errorf("unknown strand %q (G or C)", strandRaw)
}

// readSource returns the reads of path: SAM/BAM reads if the extension is
// .sam or .bam, FASTA records otherwise. With alignHints, reads are annotated
// with the strand inferred from their alignment.
func readSource(path string, nWorker int, alignHints bool, wrap func(io.Reader) io.Reader) (func() (*item, error), io.Closer, error) {
	lpath := strings.ToLower(path)
	if strings.HasSuffix(lpath, ".sam") || strings.HasSuffix(lpath, ".bam") {
		r, err := esam.Open(esam.NewPathSAM(path), nWorker, wrap)
		if err != nil {
			return nil, nil, err
		}
		next := func() (*item, error) {
			rec, err := r.Read()
			if err != nil {
				return nil, err
			}
			it := &item{Record: rec}
			if alignHints {
				if hint, ok := r.Hint(); ok {
					it.Hint = hint
				}
			}
			return it, nil
		}
		return next, r, nil
	}
	if alignHints {
		return nil, nil, fmt.Errorf("alignment hints require a SAM or BAM input")
	}
	in, err := fastx.Open(path, wrap)
	if err != nil {
		return nil, nil, err
	}
	reader := fastx.NewReader(in)
	next := func() (*item, error) {
		rec, err := reader.Read()
		if err != nil {
			return nil, err
		}
		return &item{Record: rec}, nil
	}
	return next, in, nil
}

// readLine formats the result of a read. Failed searches report their code in the boundary column.
func readLine(it *item, codes boundary.Codes) string {
	res := it.Results[0]
	var strandCol string
	if res.OK() {
		strandCol = res.Strand.String()
	}
	return fmt.Sprintf("%s\t%d\t%d\t%s\t%s\n", it.Record.ID, len(it.Record.Seq), codes.Code(res), strandCol, res.Kind)
}

func newReadsCmd(opts *globalOptions) *cobra.Command {
	cfg := config.DefaultReads()
	var ropts readsOptions

	cmd := &cobra.Command{
		Use:   "reads",
		Short: "Report the telomere boundary of each read",
		Long: "Report the telomere boundary of each read (FASTA, SAM or BAM).\n" +
			"The telomere strand of each read is inferred from its sequence, unless given\n" +
			"by --strand, a hint table (--path_hints) or the read alignment (--align_hints).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger()
			if err := loadConfig(cmd, &cfg, opts); err != nil {
				return err
			}
			p, err := cfg.Params(log)
			if err != nil {
				return err
			}
			if p.Strand, err = parseStrand(ropts.strandRaw); err != nil {
				return err
			}
			var hints map[string]strand.Call
			if ropts.pathHints != "" {
				if hints, err = bed.OpenHints(ropts.pathHints); err != nil {
					return err
				}
				log.Info().Int("hints", len(hints)).Msg("Hints loaded")
			}
			timeStart := time.Now()

			// Input
			wrap, stopProgress := progressWrap(ropts.pathInput, opts.progress)
			next, in, err := readSource(ropts.pathInput, opts.nWorker, ropts.alignHints, wrap)
			if err != nil {
				return err
			}
			defer in.Close()

			// Outputs
			var f *os.File
			if ropts.pathOutput == "-" {
				f = os.Stdout
			} else {
				if f, err = os.Create(ropts.pathOutput); err != nil {
					return err
				}
				defer f.Close()
			}
			out := bufio.NewWriter(f)
			if _, err := out.WriteString(readsHeader); err != nil {
				return err
			}
			var graphWriter *graph.Writer
			if ropts.pathGraph != "" {
				if graphWriter, err = graph.Create(ropts.pathGraph, ropts.graphFormat); err != nil {
					return err
				}
			}

			report := NewReport()
			process := func(it *item) {
				q := p
				q.Logger = log.With().Str("read", it.Record.ID).Logger()
				if hint, ok := hints[it.Record.ID]; ok {
					it.Hint = hint
				}
				if it.Hint != strand.Undetermined && q.Strand == strand.Undetermined {
					q.Strand = it.Hint
				}
				if graphWriter != nil {
					it.Graph = &graph.Collector{Name: it.Record.ID}
					q.Graph = it.Graph
				}
				it.Results = []boundary.Result{boundary.Locate(it.Record.Seq, q)}
			}
			emit := func(it *item) error {
				report.AddID(it.Record.ID)
				report.AddResult("read", it.Results[0])
				if _, err := out.WriteString(readLine(it, cfg.Codes)); err != nil {
					return err
				}
				if graphWriter != nil {
					for _, s := range it.Graph.Series {
						if err := graphWriter.Write(s); err != nil {
							return err
						}
					}
				}
				return nil
			}
			nRecord, err := runPipeline(next, opts.nWorker, process, emit)
			stopProgress()
			if ferr := out.Flush(); ferr != nil && err == nil {
				err = ferr
			}
			if graphWriter != nil {
				if gerr := graphWriter.Close(); gerr != nil && err == nil {
					err = gerr
				}
			}
			if err != nil {
				return err
			}
			if opts.pathReport != "" {
				if err := WriteReport(opts.pathReport, report); err != nil {
					return err
				}
			}
			log.Info().Uint64("reads", nRecord).Dur("elapsed", time.Since(timeStart)).Msg("Done")
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&ropts.pathInput, "input", "-", "Path to input reads: FASTA (stdin with -, optionally compressed), SAM (.sam) or BAM (.bam)")
	fs.StringVar(&ropts.pathOutput, "output", "-", "Path to tabulated output (stdout with -)")
	fs.StringVar(&ropts.pathHints, "path_hints", "", "Path to hint table: read name, chromosome arm (p or q) and strand (+ or -)")
	fs.BoolVar(&ropts.alignHints, "align_hints", false, "Infer telomere strand from the alignment of SAM/BAM reads")
	fs.StringVar(&ropts.strandRaw, "strand", "", "Telomere strand of all reads: G or C (default inferred)")
	fs.StringVar(&ropts.pathGraph, "path_graph", "", "Path to area series output")
	fs.StringVar(&ropts.graphFormat, "graph_format", "bedgraph", "Area series format: 'bedgraph', 'csv' or 'binary', optionally with '+lz4'")
	addParamFlags(fs, &cfg)
	return cmd
}
