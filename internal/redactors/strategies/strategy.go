// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package strategies implements the rewrite operators.
package strategies

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/redactors"
)

// Strategy produces the replacement text for one span
type Strategy interface {
	// Operator returns the operator this strategy implements
	Operator() redactors.Operator

	// Apply returns the replacement for span
	Apply(span detector.Finding, spec redactors.OperatorSpec) string
}

// Set holds one strategy per operator for the duration of a request. The hash
// strategy keeps request scoped state, so a Set must not be shared between
// requests or goroutines.
type Set struct {
	strategies map[redactors.Operator]Strategy
}

// NewSet creates the strategies for one request.
func NewSet(cfg redactors.OperatorConfig) *Set {
	s := &Set{strategies: make(map[redactors.Operator]Strategy)}
	for _, st := range []Strategy{
		ReplaceStrategy{},
		MaskStrategy{Char: cfg.Mask()},
		RedactStrategy{},
		NewHashStrategy(),
		KeepStrategy{},
	} {
		s.strategies[st.Operator()] = st
	}
	return s
}

// Apply rewrites span with the strategy selected by spec.
func (s *Set) Apply(span detector.Finding, spec redactors.OperatorSpec) (string, error) {
	st, ok := s.strategies[spec.Operator]
	if !ok {
		return "", detector.InvalidInputf("unsupported operator %s", spec.Operator)
	}
	return st.Apply(span, spec), nil
}

// ReplaceStrategy substitutes a template
type ReplaceStrategy struct{}

func (ReplaceStrategy) Operator() redactors.Operator { return redactors.OperatorReplace }

// Apply returns "[<TYPE>]" or the configured template with "{type}" expanded.
func (ReplaceStrategy) Apply(span detector.Finding, spec redactors.OperatorSpec) string {
	if spec.Template == "" {
		return "[" + span.EntityType + "]"
	}
	return strings.ReplaceAll(spec.Template, "{type}", span.EntityType)
}

// MaskStrategy overwrites every code point with Char
type MaskStrategy struct {
	Char rune
}

func (MaskStrategy) Operator() redactors.Operator { return redactors.OperatorMask }

// Apply returns one mask character per code point of the span.
func (m MaskStrategy) Apply(span detector.Finding, _ redactors.OperatorSpec) string {
	return strings.Repeat(string(m.Char), utf8.RuneCountInString(span.Text))
}

// RedactStrategy removes the span
type RedactStrategy struct{}

func (RedactStrategy) Operator() redactors.Operator { return redactors.OperatorRedact }

func (RedactStrategy) Apply(detector.Finding, redactors.OperatorSpec) string { return "" }

// KeepStrategy returns the original text
type KeepStrategy struct{}

func (KeepStrategy) Operator() redactors.Operator { return redactors.OperatorKeep }

func (KeepStrategy) Apply(span detector.Finding, _ redactors.OperatorSpec) string { return span.Text }

// ValidateTemplate rejects replace templates that could be detected again:
// templates must not contain digits or '@'.
func ValidateTemplate(template string) error {
	for _, r := range template {
		if unicode.IsDigit(r) || r == '@' {
			return detector.InvalidInputf("replacement template %q must not contain digits or '@'", template)
		}
	}
	return nil
}

// ValidateMaskChar rejects mask characters that could be detected again.
func ValidateMaskChar(r rune) error {
	if unicode.IsDigit(r) || unicode.IsLetter(r) || r == '@' || unicode.IsSpace(r) {
		return detector.InvalidInputf("mask character %q must be a symbol", r)
	}
	return nil
}
