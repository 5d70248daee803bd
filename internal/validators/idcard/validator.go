// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package idcard detects Czech identity card numbers (číslo občanského průkazu).
package idcard

import (
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_OP_NUMBER"

// Validator finds identity card numbers in the numeric and the older letter-prefixed form.
type Validator struct {
	detector.Base
	patterns []detector.Pattern
	scorer   *ctxscore.Scorer
}

// NewValidator creates an identity card detector.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("idcard", "cs", EntityType),
		patterns: []detector.Pattern{
			{Name: "číslo OP", Regex: regexp.MustCompile(`\b\d{9}\b`), Confidence: 0.6, Threshold: 0.5},
			{Name: "číslo OP (série)", Regex: regexp.MustCompile(`\b[A-Z]{2}\d{7}\b`), Confidence: 0.75},
		},
		scorer: ctxscore.NewScorer([]string{
			"OP:", "OP č", "č. OP", "číslo OP", "občanský průkaz", "občanského průkazu",
			"občanka", "doklad totožnosti",
		}, 0.25, ctxscore.Window{Before: 50, After: 20}),
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
