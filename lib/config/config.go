//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package config holds the run configuration: defaults, TOML file and flags.
package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"git.sr.ht/~vejnar/TeloBP/lib/boundary"
	"git.sr.ht/~vejnar/TeloBP/lib/composition"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	PresetDefault = "default"
	PresetTeloNP  = "telonp"
)

type Config struct {
	Preset             string
	TeloWindow         int
	WindowStep         int
	ChangeThreshold    float64
	PlateauThreshold   float64
	TargetPatternIndex int
	AreaWindowSize     int
	SlopeThreshold     float64
	LastDiscontinuity  bool
	SecondarySearch    bool
	// Number of nucleotides searched at each end of a record (trim only)
	SearchSize int
	// Number of nucleotides kept next to each trimmed telomere (trim only, 0 keeps the whole record)
	SubSec       int
	Classifier   strand.Params
	CompositionG []composition.Spec
	CompositionC []composition.Spec
	Codes        boundary.Codes
}

// Default returns the recommended parameters for trimming chromosome assemblies.
func Default() Config {
	p := boundary.DefaultParams()
	return Config{
		Preset:             PresetDefault,
		TeloWindow:         p.TeloWindow,
		WindowStep:         p.WindowStep,
		ChangeThreshold:    p.ChangeThreshold,
		PlateauThreshold:   -60,
		TargetPatternIndex: p.TargetPatternIndex,
		AreaWindowSize:     p.AreaWindowSize,
		SlopeThreshold:     p.SlopeThreshold,
		SearchSize:         500000,
		Classifier:         strand.DefaultParams(),
		Codes:              boundary.DefaultCodes(),
	}
}

// DefaultReads returns the default parameters for reads.
func DefaultReads() Config {
	c := Default()
	c.PlateauThreshold = boundary.DefaultParams().PlateauThreshold
	c.SearchSize = 0
	return c
}

func (c Config) Validate() error {
	switch c.Preset {
	case PresetDefault, PresetTeloNP:
	default:
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, c.Preset)
	}
	if c.SearchSize < 0 {
		return fmt.Errorf("%w: negative search size %d", ErrInvalidConfig, c.SearchSize)
	}
	if c.SubSec < 0 {
		return fmt.Errorf("%w: negative sub-sequence length %d", ErrInvalidConfig, c.SubSec)
	}
	if c.Classifier.SearchRepeats < 1 {
		return fmt.Errorf("%w: search repeats must be positive (%d)", ErrInvalidConfig, c.Classifier.SearchRepeats)
	}
	_, err := c.Params(zerolog.Nop())
	return err
}

// Params returns the boundary search parameters. The preset provides the
// composition tables unless they are set in c.
func (c Config) Params(logger zerolog.Logger) (boundary.Params, error) {
	var p boundary.Params
	switch c.Preset {
	case PresetTeloNP:
		p = boundary.TeloNPParams()
	default:
		p = boundary.DefaultParams()
	}
	p.TeloWindow = c.TeloWindow
	p.WindowStep = c.WindowStep
	p.ChangeThreshold = c.ChangeThreshold
	p.PlateauThreshold = c.PlateauThreshold
	p.TargetPatternIndex = c.TargetPatternIndex
	p.AreaWindowSize = c.AreaWindowSize
	p.SlopeThreshold = c.SlopeThreshold
	p.LastDiscontinuity = c.LastDiscontinuity
	p.SecondarySearch = c.SecondarySearch
	p.Classifier = c.Classifier
	p.Logger = logger
	var err error
	if len(c.CompositionG) > 0 {
		if p.CompositionG, err = composition.FromSpecs(c.CompositionG); err != nil {
			return p, fmt.Errorf("%w: composition_g: %w", ErrInvalidConfig, err)
		}
	}
	if len(c.CompositionC) > 0 {
		if p.CompositionC, err = composition.FromSpecs(c.CompositionC); err != nil {
			return p, fmt.Errorf("%w: composition_c: %w", ErrInvalidConfig, err)
		}
	}
	if err = p.Validate(); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// ApplyPreset sets the thresholds of the preset, except for changed flags.
func ApplyPreset(cfg *Config, changed map[string]bool) {
	if cfg.Preset != PresetTeloNP {
		return
	}
	p := boundary.TeloNPParams()
	s := newConfigSetter(changed)
	s.setFloat("plateau_threshold", &p.PlateauThreshold, &cfg.PlateauThreshold)
	s.setInt("area_window_size", &p.AreaWindowSize, &cfg.AreaWindowSize)
	s.setBool("last_discontinuity", &p.LastDiscontinuity, &cfg.LastDiscontinuity)
	s.setBool("secondary_search", &p.SecondarySearch, &cfg.SecondarySearch)
}

type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if set and flag not changed.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setFloat sets a float64 value if set and flag not changed. Thresholds are
// negative so zero values cannot mean unset.
func (s *configSetter) setFloat(flag string, value *float64, dst *float64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}
