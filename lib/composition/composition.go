//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package composition

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTargetLength = errors.New("composition: a target length is required for a regular expression pattern")
	ErrEmptyTable          = errors.New("composition: empty table")
	ErrEmptyPattern        = errors.New("composition: empty pattern")
	ErrFraction            = errors.New("composition: expected fraction must be within [0,1]")
	ErrTargetIndex         = errors.New("composition: target pattern index out of range")
)

// Pattern is a matching rule with the fraction of a perfect telomere it is
// expected to cover.
type Pattern struct {
	Rule     Matcher
	Fraction float64
}

// NewPattern builds a Pattern. A targetLength is required, and only used, when
// expr is a regular expression (e.g. ["GGG|AAA", 3/6, 3]).
func NewPattern(expr string, fraction float64, targetLength int) (Pattern, error) {
	if expr == "" {
		return Pattern{}, ErrEmptyPattern
	}
	if fraction < 0 || fraction > 1 {
		return Pattern{}, fmt.Errorf("%w: %s %v", ErrFraction, expr, fraction)
	}
	if !IsRegex(expr) {
		return Pattern{Rule: NewLiteral(expr), Fraction: fraction}, nil
	}
	if targetLength <= 0 {
		return Pattern{}, fmt.Errorf("%w: %s", ErrMissingTargetLength, expr)
	}
	rule, err := NewAlternation(expr, targetLength)
	if err != nil {
		return Pattern{}, fmt.Errorf("composition: pattern %s: %w", expr, err)
	}
	return Pattern{Rule: rule, Fraction: fraction}, nil
}

// MustPattern is like NewPattern but panics on error. Used to build static tables.
func MustPattern(expr string, fraction float64, targetLength int) Pattern {
	p, err := NewPattern(expr, fraction, targetLength)
	if err != nil {
		panic(err)
	}
	return p
}

// Offset returns the percentage deviation of the pattern density observed in
// window from the expected fraction. When the expected fraction is 0, the raw
// deviation is returned (times 100).
func (p Pattern) Offset(window []byte) float64 {
	raw := float64(p.Rule.Count(window)*p.Rule.Unit())/float64(len(window)) - p.Fraction
	if p.Fraction != 0 {
		return (raw / p.Fraction) * 100
	}
	return raw * 100
}

func (p Pattern) String() string {
	return p.Rule.Expr()
}

// Table is an ordered list of patterns. All patterns produce an offset, one
// (the target) is used to find the boundary.
type Table []Pattern

func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for _, p := range t {
		if p.Rule == nil {
			return ErrEmptyPattern
		}
		if alt, ok := p.Rule.(Alternation); ok && (alt.re == nil || alt.targetLength <= 0) {
			return ErrMissingTargetLength
		}
	}
	return nil
}

// Index resolves idx, negative values counting from the end (-1 is the last pattern).
func (t Table) Index(idx int) (int, error) {
	i := idx
	if i < 0 {
		i += len(t)
	}
	if i < 0 || i >= len(t) {
		return 0, fmt.Errorf("%w: %d (table of %d)", ErrTargetIndex, idx, len(t))
	}
	return i, nil
}

// Target returns the pattern at idx (see Index).
func (t Table) Target(idx int) (Pattern, error) {
	i, err := t.Index(idx)
	if err != nil {
		return Pattern{}, err
	}
	return t[i], nil
}

// Spec is the serialized form of a Pattern.
type Spec struct {
	Pattern      string  `toml:"pattern" json:"pattern"`
	Fraction     float64 `toml:"fraction" json:"fraction"`
	TargetLength int     `toml:"target_length,omitempty" json:"target_length,omitempty"`
}

// FromSpecs builds a Table from its serialized form.
func FromSpecs(specs []Spec) (Table, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyTable
	}
	t := make(Table, len(specs))
	for i, s := range specs {
		p, err := NewPattern(s.Pattern, s.Fraction, s.TargetLength)
		if err != nil {
			return nil, err
		}
		t[i] = p
	}
	return t, nil
}
