// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"sort"
	"strings"
)

// Finding is a candidate detection produced by a single detector.
// Offsets are Unicode code points into the analyzed text, half-open.
type Finding struct {
	EntityType  string            `json:"entity_type" yaml:"entity_type"`
	Start       int               `json:"start" yaml:"start"`
	End         int               `json:"end" yaml:"end"`
	Confidence  float64           `json:"confidence" yaml:"confidence"`
	Detector    string            `json:"detector" yaml:"detector"`
	Explanation string            `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Text is the covered substring. Formatters drop it unless asked to show matches.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Len returns the span length in code points.
func (f Finding) Len() int {
	return f.End - f.Start
}

// Overlaps reports whether two half-open spans share at least one position.
func (f Finding) Overlaps(other Finding) bool {
	return f.Start < other.End && other.Start < f.End
}

// ModelSpan is an entity reported by the external model collaborator.
type ModelSpan struct {
	Label string   `json:"label"`
	Start int      `json:"start"`
	End   int      `json:"end"`
	Score *float64 `json:"score,omitempty"`
}

// Detector finds one or more PII categories in text.
//
// Implementations must be pure: no I/O, no shared mutable state, identical
// output for identical input. Detect returns an empty slice, not an error,
// when nothing matches.
type Detector interface {
	// Name identifies the detector in findings and logs.
	Name() string

	// Language returns the language code the detector is built for, or ""
	// when it applies to every language.
	Language() string

	// SupportedTypes lists the entity types the detector can emit.
	SupportedTypes() []string

	// Detect scans text. modelSpans are only consulted by model-backed detectors.
	Detect(text *Text, requested TypeSet, modelSpans []ModelSpan) ([]Finding, error)
}

// TypeSet filters entity types. A nil or empty set allows every type.
type TypeSet map[string]bool

// ParseTypes builds a TypeSet from a list of entity names. "all" or an empty
// list yields a set that allows everything.
func ParseTypes(types []string) TypeSet {
	set := make(TypeSet)
	for _, t := range types {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if t == "ALL" {
			return TypeSet{}
		}
		set[t] = true
	}
	return set
}

// Allows reports whether entityType passes the filter.
func (s TypeSet) Allows(entityType string) bool {
	if len(s) == 0 {
		return true
	}
	return s[entityType]
}

// AllowsAny reports whether at least one of types passes the filter.
func (s TypeSet) AllowsAny(types []string) bool {
	for _, t := range types {
		if s.Allows(t) {
			return true
		}
	}
	return false
}

// Names returns the sorted entity names in the set.
func (s TypeSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClampConfidence bounds a score to [0,1].
func ClampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
