// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package passport

import (
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_PASSPORT_NUMBER"

// Validator implements the detector.Detector interface for detecting
// Czech passport numbers using regex patterns and contextual analysis.
type Validator struct {
	detector.Base
	patterns []detector.Pattern
	scorer   *ctxscore.Scorer
}

// NewValidator creates and returns a new Validator instance
// with the letter-prefixed and the numeric passport formats.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("passport", "cs", EntityType),
		patterns: []detector.Pattern{
			// Letter followed by 8 digits, current biometric passports
			{Name: "cestovní pas", Regex: regexp.MustCompile(`\b[A-Z]\d{8}\b`), Confidence: 0.8},
			// 9 digits, shared with identity cards and phone numbers
			{Name: "cestovní pas (číselný)", Regex: regexp.MustCompile(`\b\d{9}\b`), Confidence: 0.55, Threshold: 0.5},
		},
		scorer: ctxscore.NewScorer([]string{
			"pas č", "pasu", "cestovní pas", "číslo pasu", "passport",
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
