//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package config

import (
	"bytes"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"git.sr.ht/~vejnar/TeloBP/lib/boundary"
	"git.sr.ht/~vejnar/TeloBP/lib/composition"
)

// FileConfig mirrors Config with optional values.
type FileConfig struct {
	Preset             string             `toml:"preset"`
	TeloWindow         *int               `toml:"telo_window"`
	WindowStep         *int               `toml:"window_step"`
	ChangeThreshold    *float64           `toml:"change_threshold"`
	PlateauThreshold   *float64           `toml:"plateau_threshold"`
	TargetPatternIndex *int               `toml:"target_pattern_index"`
	AreaWindowSize     *int               `toml:"area_window_size"`
	SlopeThreshold     *float64           `toml:"slope_threshold"`
	LastDiscontinuity  *bool              `toml:"last_discontinuity"`
	SecondarySearch    *bool              `toml:"secondary_search"`
	SearchSize         *int               `toml:"search_size"`
	SubSec             *int               `toml:"sub_sec"`
	SearchRepeats      *int               `toml:"search_repeats"`
	MinCountDiff       *int               `toml:"min_count_diff"`
	FusedThreshold     *int               `toml:"fused_threshold"`
	MaxGap             *int               `toml:"max_gap"`
	CompositionG       []composition.Spec `toml:"composition_g"`
	CompositionC       []composition.Spec `toml:"composition_c"`
	Codes              *boundary.Codes    `toml:"codes"`
}

// LoadFileConfig reads and parses a TOML config file. Unknown keys are rejected.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	d := toml.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	if err := d.Decode(&fc); err != nil {
		return fc, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return fc, nil
}

// Load applies the preset and the config file at path (if not empty) to cfg,
// then validates it. Explicitly set flags (changed map) have precedence.
func Load(cfg *Config, path string, changed map[string]bool) error {
	if path == "" {
		ApplyPreset(cfg, changed)
	} else {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return err
		}
		ApplyFileConfig(cfg, fc, changed)
	}
	return cfg.Validate()
}

// ApplyFileConfig applies configuration from a file to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	// Preset thresholds first: file values override them
	s.setString("preset", fc.Preset, &cfg.Preset)
	ApplyPreset(cfg, changed)

	s.setInt("telo_window", fc.TeloWindow, &cfg.TeloWindow)
	s.setInt("window_step", fc.WindowStep, &cfg.WindowStep)
	s.setInt("target_pattern_index", fc.TargetPatternIndex, &cfg.TargetPatternIndex)
	s.setInt("area_window_size", fc.AreaWindowSize, &cfg.AreaWindowSize)
	s.setInt("search_size", fc.SearchSize, &cfg.SearchSize)
	s.setInt("sub_sec", fc.SubSec, &cfg.SubSec)
	s.setInt("search_repeats", fc.SearchRepeats, &cfg.Classifier.SearchRepeats)
	s.setInt("min_count_diff", fc.MinCountDiff, &cfg.Classifier.MinCountDiff)
	s.setInt("fused_threshold", fc.FusedThreshold, &cfg.Classifier.FusedThreshold)
	s.setInt("max_gap", fc.MaxGap, &cfg.Classifier.MaxGap)

	s.setFloat("change_threshold", fc.ChangeThreshold, &cfg.ChangeThreshold)
	s.setFloat("plateau_threshold", fc.PlateauThreshold, &cfg.PlateauThreshold)
	s.setFloat("slope_threshold", fc.SlopeThreshold, &cfg.SlopeThreshold)

	s.setBool("last_discontinuity", fc.LastDiscontinuity, &cfg.LastDiscontinuity)
	s.setBool("secondary_search", fc.SecondarySearch, &cfg.SecondarySearch)

	// Tables and codes have no flag
	if len(fc.CompositionG) > 0 {
		cfg.CompositionG = fc.CompositionG
	}
	if len(fc.CompositionC) > 0 {
		cfg.CompositionC = fc.CompositionC
	}
	if fc.Codes != nil {
		cfg.Codes = *fc.Codes
	}
}
