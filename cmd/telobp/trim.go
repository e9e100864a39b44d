//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"git.sr.ht/~vejnar/TeloBP/lib/bed"
	"git.sr.ht/~vejnar/TeloBP/lib/boundary"
	"git.sr.ht/~vejnar/TeloBP/lib/cmapper"
	"git.sr.ht/~vejnar/TeloBP/lib/config"
	"git.sr.ht/~vejnar/TeloBP/lib/fastx"
	"git.sr.ht/~vejnar/TeloBP/lib/graph"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

type trimOptions struct {
	pathInput   string
	pathOutput  string
	pathBed     string
	pathMapping string
	pathGraph   string
	graphFormat string
}

// trimLengths are the telomere lengths found at both ends of a record. A
// failed search counts as no telomere.
type trimLengths struct {
	Start, End int
	Overlap    bool
}

// locateEnds searches the C-strand telomere in the first and the G-strand
// telomere in the last searchSize nucleotides of seq. searchSize 0 searches
// the whole sequence.
func locateEnds(seq []byte, searchSize int, p boundary.Params) (resC, resG boundary.Result) {
	if searchSize <= 0 {
		searchSize = len(seq)
	}
	for _, call := range []strand.Call{strand.C, strand.G} {
		var dir int8 = 1
		if call == strand.G {
			dir = -1
		}
		cm := cmapper.NewEnd(len(seq), dir, searchSize)
		q := p
		q.Strand = call
		res := boundary.Locate(cm.Slice(seq), q)
		if res.OK() {
			res.Position = cm.Window2Seq(res.Position)
		}
		if call == strand.C {
			resC = res
		} else {
			resG = res
		}
	}
	return
}

func lengths(chrom string, l int, resC, resG boundary.Result) trimLengths {
	var t trimLengths
	if resC.OK() {
		t.Start = resC.Position
	}
	if resG.OK() {
		t.End = resG.Position
	}
	t.Overlap = bed.SpansOverlap(bed.TrimRows(chrom, l, t.Start, t.End))
	return t
}

// trimRecords returns the trimmed record or, if subSec > 0, the subSec
// nucleotides next to each telomere as "<id>_C" and "<id>_G". Records with
// overlapping telomeres are returned untrimmed.
func trimRecords(r *fastx.Record, t trimLengths, subSec int) []*fastx.Record {
	l := len(r.Seq)
	if t.Overlap {
		return []*fastx.Record{r}
	}
	if subSec <= 0 {
		return []*fastx.Record{{ID: r.ID, Desc: r.Desc, Seq: r.Seq[t.Start : l-t.End]}}
	}
	return []*fastx.Record{
		{ID: r.ID + "_C", Seq: r.Seq[t.Start:min(t.Start+subSec, l-t.End)]},
		{ID: r.ID + "_G", Seq: r.Seq[max(t.Start, l-t.End-subSec) : l-t.End]},
	}
}

func newTrimCmd(opts *globalOptions) *cobra.Command {
	cfg := config.Default()
	var topts trimOptions

	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Trim the telomeres at both ends of each chromosome of an assembly",
		Long: "Trim the telomeres at both ends of each chromosome of an assembly (FASTA).\n" +
			"Each chromosome is expected to be a single record, not split into p and q arms.",
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
			timeStart := time.Now()

			// Input
			wrap, stopProgress := progressWrap(topts.pathInput, opts.progress)
			in, err := fastx.Open(topts.pathInput, wrap)
			if err != nil {
				return err
			}
			defer in.Close()
			reader := fastx.NewReader(in)

			// Outputs
			var closers []interface{ Close() error }
			closeAll := func(err error) error {
				for _, c := range closers {
					if cerr := c.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}
				return err
			}
			out, err := fastx.Create(topts.pathOutput, opts.nWorker)
			if err != nil {
				return err
			}
			closers = append(closers, out)
			var bedWriter *bed.Writer
			if topts.pathBed != "" {
				if bedWriter, err = bed.Create(topts.pathBed); err != nil {
					return closeAll(err)
				}
				closers = append(closers, bedWriter)
				if topts.pathMapping != "" {
					if bedWriter.Mapping, err = bed.OpenMapping(topts.pathMapping); err != nil {
						return closeAll(err)
					}
				}
			}
			var graphWriter *graph.Writer
			if topts.pathGraph != "" {
				if graphWriter, err = graph.Create(topts.pathGraph, topts.graphFormat); err != nil {
					return closeAll(err)
				}
				closers = append(closers, graphWriter)
			}

			report := NewReport()
			next := func() (*item, error) {
				r, err := reader.Read()
				if err != nil {
					return nil, err
				}
				return &item{Record: r}, nil
			}
			process := func(it *item) {
				q := p
				q.Logger = log.With().Str("record", it.Record.ID).Logger()
				if graphWriter != nil {
					it.Graph = &graph.Collector{Name: it.Record.ID}
					q.Graph = it.Graph
				}
				resC, resG := locateEnds(it.Record.Seq, cfg.SearchSize, q)
				it.Results = []boundary.Result{resC, resG}
			}
			emit := func(it *item) error {
				return emitTrim(it, cfg.SubSec, out, bedWriter, graphWriter, report, log)
			}
			nRecord, err := runPipeline(next, opts.nWorker, process, emit)
			stopProgress()

			if err = closeAll(err); err != nil {
				return err
			}
			if opts.pathReport != "" {
				if err := WriteReport(opts.pathReport, report); err != nil {
					return err
				}
			}
			log.Info().Uint64("records", nRecord).Dur("elapsed", time.Since(timeStart)).Msg("Done")
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&topts.pathInput, "input", "-", "Path to input FASTA (stdin with -), optionally compressed (gz, zst or lz4)")
	fs.StringVar(&topts.pathOutput, "output", "-", "Path to trimmed FASTA output (stdout with -), compressed with .gz (BGZF), .zst or .lz4 extension")
	fs.StringVar(&topts.pathBed, "path_bed", "", "Path to BED output of telomere spans (lz4 compressed with .lz4 extension)")
	fs.StringVar(&topts.pathMapping, "path_mapping", "", "Path to chromosome name mapping used in BED output (tabulated file)")
	fs.StringVar(&topts.pathGraph, "path_graph", "", "Path to area series output")
	fs.StringVar(&topts.graphFormat, "graph_format", "bedgraph", "Area series format: 'bedgraph', 'csv' or 'binary', optionally with '+lz4'")
	fs.IntVar(&cfg.SearchSize, "search_size", cfg.SearchSize, "Number of nucleotides searched at each end of a chromosome (0 for all)")
	fs.IntVar(&cfg.SubSec, "sub_sec", cfg.SubSec, "Output only the N nucleotides next to each trimmed telomere")
	addParamFlags(fs, &cfg)
	return cmd
}

func emitTrim(it *item, subSec int, out *fastx.Writer, bedWriter *bed.Writer, graphWriter *graph.Writer, report *Report, log zerolog.Logger) error {
	r := it.Record
	resC, resG := it.Results[0], it.Results[1]
	report.AddID(r.ID)
	report.AddResult("C", resC)
	report.AddResult("G", resG)

	t := lengths(r.ID, len(r.Seq), resC, resG)
	if t.Overlap {
		report.Overlap++
		log.Warn().Str("record", r.ID).Int("start", t.Start).Int("end", t.End).Msg("Telomeres overlap, record kept untrimmed")
	} else {
		report.Trimmed += uint64(t.Start + t.End)
	}
	for _, tr := range trimRecords(r, t, subSec) {
		if err := out.Write(tr); err != nil {
			return err
		}
	}
	if bedWriter != nil {
		if err := bedWriter.WriteTrim(r.ID, len(r.Seq), t.Start, t.End); err != nil {
			return fmt.Errorf("writing BED: %w", err)
		}
	}
	if graphWriter != nil && it.Graph != nil {
		for _, s := range it.Graph.Series {
			if err := graphWriter.Write(s); err != nil {
				return err
			}
		}
	}
	log.Debug().Str("record", r.ID).Int("start", t.Start).Int("end", t.End).Msg("Trimmed")
	return nil
}
