// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dic detects Czech VAT identification numbers (DIČ).
package dic

import (
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_DIC"

const baseConfidence = 0.85

// Validator finds CZ-prefixed VAT numbers.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates a DIČ detector.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("dic", "cs", EntityType),
		regex: regexp.MustCompile(`\b(CZ)(\d{8,10})\b`),
		scorer: ctxscore.NewScorer([]string{
			"DIČ", "DIC", "daňové identifikační číslo", "VAT", "plátce DPH",
		}, 0.10, ctxscore.Window{Before: 40, After: 20}),
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
	for _, m := range detector.FindAll(v.regex, text) {
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, baseConfidence)
		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("DIČ", keyword))
		f.Metadata["vat_id_country"] = m.Groups[1]
		f.Metadata["vat_id_number"] = m.Groups[2]
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}
