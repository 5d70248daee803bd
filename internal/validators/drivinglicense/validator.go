// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package drivinglicense detects Czech driving licence numbers (číslo ŘP).
package drivinglicense

import (
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_RP_NUMBER"

// Validator finds driving licence numbers. Both formats are ambiguous on their
// own, so a finding needs licence context to pass the pattern threshold.
type Validator struct {
	detector.Base
	patterns []detector.Pattern
	scorer   *ctxscore.Scorer
}

// NewValidator creates a driving licence detector.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("drivinglicense", "cs", EntityType),
		patterns: []detector.Pattern{
			{Name: "číslo ŘP", Regex: regexp.MustCompile(`\b\d{8}\b`), Confidence: 0.4, Threshold: 0.6},
			{Name: "číslo ŘP (série)", Regex: regexp.MustCompile(`\b[A-Z]{2} ?\d{6}\b`), Confidence: 0.5, Threshold: 0.6},
		},
		scorer: ctxscore.NewScorer([]string{
			"ŘP", "řidičský průkaz", "řidičského průkazu", "číslo ŘP", "č. ŘP",
			"řidičák", "driving licence", "driver's license",
		}, 0.4, ctxscore.Window{Before: 50, After: 20}),
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
			findings = append(findings, v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain(p.Name, keyword)))
		}
	}
	return resolver.Resolve(findings), nil
}
