// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package diagnosis detects ICD-10 (MKN-10) diagnosis codes.
package diagnosis

import (
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_DIAGNOSIS_CODE"

// Validator finds diagnosis codes. Chapter U is reserved and never matched.
type Validator struct {
	detector.Base
	patterns []detector.Pattern
	scorer   *ctxscore.Scorer
}

// NewValidator creates a diagnosis code detector.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("diagnosis", "cs", EntityType),
		patterns: []detector.Pattern{
			{Name: "MKN-10", Regex: regexp.MustCompile(`\b[A-TV-Z]\d{2}\.[0-9A-Z]{1,2}\b`), Confidence: 0.6},
			// Bare three character categories collide with model numbers and grid references.
			{Name: "MKN-10 (kategorie)", Regex: regexp.MustCompile(`\b[A-TV-Z]\d{2}\b`), Confidence: 0.35, Threshold: 0.5},
		},
		scorer: ctxscore.NewScorer([]string{
			"diagnóza", "diagnózy", "dg.", "dg:", "MKN", "MKN-10", "ICD", "ICD-10",
			"diagnosis", "kód diagnózy",
		}, 0.3, ctxscore.Window{Before: 40, After: 10}),
	}
}

// Scorer returns the context scorer in use.
func (v *Validator) Scorer() *ctxscore.Scorer { return v.scorer }

// SetScorer replaces the context scorer.
func (v *Validator) SetScorer(s *ctxscore.Scorer) { v.scorer = s }

// Detect implements detector.Detector.
func (v *Validator) Detect(text *detector.Text, requested detector.TypeSet, _ []detector.ModelSpan) ([]detector.Finding, error) {
	if !v.Wants(requested) {
		return nil, nil
	}

	var findings []detector.Finding
	for _, p := range v.patterns {
		for _, m := range detector.FindAll(p.Regex, text) {
			confidence, keyword := v.scorer.Score(text, m.Start, m.End, p.Confidence)
			if !p.Keep(confidence) {
				continue
			}
			f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain(p.Name, keyword))
			f.Metadata["chapter"] = m.Value[:1]
			findings = append(findings, f)
		}
	}
	return resolver.Resolve(findings), nil
}
