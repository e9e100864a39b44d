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
	"io"
	"os"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"git.sr.ht/~vejnar/TeloBP/lib/config"
)

var version = "DEV"

type globalOptions struct {
	configPath   string
	pathReport   string
	nWorker      int
	verboseLevel int
	verbose      bool
	progress     bool
}

func newLogger(verboseLevel int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verboseLevel >= 2:
		level = zerolog.DebugLevel
	case verboseLevel == 1:
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(level).With().Timestamp().Logger()
}

func (o *globalOptions) logger() zerolog.Logger {
	if o.verbose && o.verboseLevel == 0 {
		o.verboseLevel = 1
	}
	return newLogger(o.verboseLevel)
}

// addParamFlags binds the boundary search parameters of cfg to flags.
func addParamFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "Parameter preset: 'default' or 'telonp' (nanopore reads)")
	fs.IntVar(&cfg.TeloWindow, "telo_window", cfg.TeloWindow, "Window size used to compute the telomere composition")
	fs.IntVar(&cfg.WindowStep, "window_step", cfg.WindowStep, "Step between two windows")
	fs.Float64Var(&cfg.ChangeThreshold, "change_threshold", cfg.ChangeThreshold, "Area above which the signal is still telomeric (last discontinuity only)")
	fs.Float64Var(&cfg.PlateauThreshold, "plateau_threshold", cfg.PlateauThreshold, "Area below which the plateau of the signal is searched")
	fs.IntVar(&cfg.TargetPatternIndex, "target_pattern_index", cfg.TargetPatternIndex, "Index of the composition pattern used to find the boundary (negative counts from the end)")
	fs.IntVar(&cfg.AreaWindowSize, "area_window_size", cfg.AreaWindowSize, "Number of nucleotides averaged in the area series")
	fs.Float64Var(&cfg.SlopeThreshold, "slope_threshold", cfg.SlopeThreshold, "Slope under which the area series is flat")
	fs.BoolVar(&cfg.LastDiscontinuity, "last_discontinuity", cfg.LastDiscontinuity, "Return the last discontinuity of the signal (noisy sequences)")
	fs.BoolVar(&cfg.SecondarySearch, "secondary_search", cfg.SecondarySearch, "Refine the boundary on a narrow window")
	fs.IntVar(&cfg.Classifier.SearchRepeats, "search_repeats", cfg.Classifier.SearchRepeats, "Consecutive repeats required to infer the strand")
	fs.IntVar(&cfg.Classifier.MinCountDiff, "min_count_diff", cfg.Classifier.MinCountDiff, "Repeat count under which the strand is inferred from matched lengths")
	fs.IntVar(&cfg.Classifier.FusedThreshold, "fused_threshold", cfg.Classifier.FusedThreshold, "Repeat count on both strands flagging a fused read")
	fs.IntVar(&cfg.Classifier.MaxGap, "max_gap", cfg.Classifier.MaxGap, "Maximum distance between two counted repeat matches")
}

// loadConfig applies the config file and flags to cfg.
func loadConfig(cmd *cobra.Command, cfg *config.Config, opts *globalOptions) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return config.Load(cfg, opts.configPath, changed)
}

// progressWrap returns a function wrapping an input stream with a progress bar
// over the file size, and the function stopping the bar.
func progressWrap(path string, show bool) (func(io.Reader) io.Reader, func()) {
	if !show || path == "-" {
		return nil, func() {}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, func() {}
	}
	bar := pb.Full.Start64(fi.Size())
	bar.Set(pb.Bytes, true)
	return func(r io.Reader) io.Reader { return bar.NewProxyReader(r) }, func() { bar.Finish() }
}

func main() {
	var opts globalOptions

	root := &cobra.Command{
		Use:           "telobp",
		Short:         "Locate telomere boundaries in reads and trim telomeres from assemblies",
		Version:       fmt.Sprintf("%s %s/%s", version, runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to TOML config file")
	pf.StringVar(&opts.pathReport, "path_report", "", "Write report to path (stdout with -)")
	pf.IntVar(&opts.nWorker, "num_worker", 1, "Number of worker(s)")
	pf.IntVar(&opts.verboseLevel, "verbose_level", 0, "Verbose level (1: info, 2: debug)")
	pf.BoolVar(&opts.verbose, "verbose", false, "Verbose")
	pf.BoolVar(&opts.progress, "progress", false, "Show a progress bar over the input")

	root.AddCommand(newTrimCmd(&opts), newReadsCmd(&opts))

	if err := root.Execute(); err != nil {
		log := opts.logger()
		log.Error().Err(err).Msg("Failed")
		os.Exit(1)
	}
}
