//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package composition

import (
	"bytes"
	"regexp"
	"strings"
)

// Matcher is a nucleotide matching rule. Windows passed to Count are upper-case.
type Matcher interface {
	// Count returns the number of non-overlapping matches in window.
	Count(window []byte) int
	// Unit returns the number of nucleotides accounted for by one match.
	Unit() int
	// Expr returns the rule as a regular expression.
	Expr() string
}

// Literal matches a fixed nucleotide string.
type Literal struct {
	seq []byte
}

func NewLiteral(s string) Literal {
	return Literal{seq: []byte(strings.ToUpper(s))}
}

func (l Literal) Count(window []byte) int {
	return bytes.Count(window, l.seq)
}

func (l Literal) Unit() int {
	return len(l.seq)
}

func (l Literal) Expr() string {
	return regexp.QuoteMeta(string(l.seq))
}

func (l Literal) String() string {
	return string(l.seq)
}

// Alternation matches a regular expression (e.g. "TTAGGG|TTGGGG"), ignoring
// case. Since matches can differ in length, each match is counted as
// targetLength nucleotides.
type Alternation struct {
	re           *regexp.Regexp
	expr         string
	targetLength int
}

func NewAlternation(expr string, targetLength int) (Alternation, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Alternation{}, err
	}
	return Alternation{re: re, expr: expr, targetLength: targetLength}, nil
}

func (a Alternation) Count(window []byte) int {
	return len(a.re.FindAllIndex(window, -1))
}

func (a Alternation) Unit() int {
	return a.targetLength
}

func (a Alternation) Expr() string {
	return a.re.String()
}

func (a Alternation) String() string {
	return a.expr
}

// IsRegex reports whether expr uses regular expression syntax.
func IsRegex(expr string) bool {
	return regexp.QuoteMeta(expr) != expr
}
