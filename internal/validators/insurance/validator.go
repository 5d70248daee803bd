// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package insurance detects Czech health insurance numbers. The insured
// person's number is their birth number, so a candidate is only reported
// when insurance context surrounds it.
package insurance

import (
	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
	"meddoc-anonymizer/internal/validators/birthnumber"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_HEALTH_INSURANCE_NUMBER"

const baseConfidence = 0.5

// Validator finds birth-number shaped insurance numbers next to insurance keywords.
type Validator struct {
	detector.Base
	scorer *ctxscore.Scorer
}

// NewValidator creates a health insurance number detector.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("insurance", "cs", EntityType),
		scorer: ctxscore.NewScorer([]string{
			"číslo pojištěnce", "pojištěnec", "pojištěnce", "zdravotní pojišťovna",
			"pojišťovna", "VZP", "insurance number", "č. poj.",
		}, 0.4, ctxscore.Window{Before: 60, After: 20}),
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
	for _, m := range detector.FindAll(birthnumber.Pattern, text) {
		if _, ok := birthnumber.Parse(m.Groups); !ok {
			continue
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, baseConfidence)
		if keyword == "" {
			continue
		}
		findings = append(findings, v.Finding(text, EntityType, m.Start, m.End, confidence,
			ctxscore.Explain("číslo pojištěnce", keyword)))
	}
	return resolver.Resolve(findings), nil
}
