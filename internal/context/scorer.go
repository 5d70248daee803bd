// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package context

import (
	"strings"

	"meddoc-anonymizer/internal/detector"

	"golang.org/x/text/cases"
)

// Window is the number of code points inspected on each side of a span.
type Window struct {
	Before int
	After  int
}

// Scorer raises a candidate's confidence when a domain keyword appears next to it.
// A Scorer is immutable and safe for concurrent use.
type Scorer struct {
	keywords []string
	folded   []string
	boost    float64
	window   Window
}

// NewScorer creates a scorer. Keywords are matched as case-insensitive substrings.
func NewScorer(keywords []string, boost float64, window Window) *Scorer {
	s := &Scorer{
		boost:  boost,
		window: window,
	}
	s.setKeywords(keywords)
	return s
}

func (s *Scorer) setKeywords(keywords []string) {
	fold := cases.Fold()
	s.keywords = make([]string, 0, len(keywords))
	s.folded = make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		s.keywords = append(s.keywords, kw)
		s.folded = append(s.folded, fold.String(kw))
	}
}

// WithKeywords returns a copy of the scorer using a different keyword list.
func (s *Scorer) WithKeywords(keywords []string) *Scorer {
	c := &Scorer{boost: s.boost, window: s.window}
	c.setKeywords(keywords)
	return c
}

// WithBoost returns a copy of the scorer using a different boost.
func (s *Scorer) WithBoost(boost float64) *Scorer {
	c := *s
	c.boost = boost
	return &c
}

// Keywords returns the configured keywords.
func (s *Scorer) Keywords() []string {
	return append([]string(nil), s.keywords...)
}

// Boost returns the fixed confidence increment.
func (s *Scorer) Boost() float64 {
	return s.boost
}

// Window returns the inspected window sizes.
func (s *Scorer) Window() Window {
	return s.window
}

// Score returns base raised by the boost, capped at 1.0, when any keyword is
// present in the window around [start,end). Only one boost is ever applied.
// The second return value is the keyword that fired, or "".
func (s *Scorer) Score(text *detector.Text, start, end int, base float64) (float64, string) {
	if s == nil || len(s.folded) == 0 {
		return detector.ClampConfidence(base), ""
	}

	keyword := s.Match(text, start, end)
	if keyword == "" {
		return detector.ClampConfidence(base), ""
	}
	return detector.ClampConfidence(base + s.boost), keyword
}

// Match returns the first configured keyword found in the window around
// [start,end), or "".
func (s *Scorer) Match(text *detector.Text, start, end int) string {
	before, after := text.Window(start, end, s.window.Before, s.window.After)
	fold := cases.Fold()
	before = fold.String(before)
	after = fold.String(after)

	for i, kw := range s.folded {
		if strings.Contains(before, kw) || strings.Contains(after, kw) {
			return s.keywords[i]
		}
	}
	return ""
}

// Explain formats the standard explanation for a pattern finding.
func Explain(pattern, keyword string) string {
	if keyword == "" {
		return "matched pattern " + pattern
	}
	return "matched pattern " + pattern + ", context keyword '" + keyword + "'"
}
