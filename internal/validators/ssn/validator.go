// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"regexp"
	"strconv"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "US_SSN"

const baseConfidence = 0.5

// Validator implements the detector.Detector interface for detecting
// US Social Security Numbers in English text.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates and returns a new Validator instance
// with the dashed SSN pattern and SSN context keywords.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("ssn", "en", EntityType),
		regex: regexp.MustCompile(`\b(\d{3})-(\d{2})-(\d{4})\b`),
		scorer: ctxscore.NewScorer([]string{
			"ssn", "social security", "social security number", "taxpayer id",
			"medicare", "medicaid", "patient id",
		}, 0.35, ctxscore.Window{Before: 50, After: 20}),
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
		if !IsValid(m.Groups[1], m.Groups[2], m.Groups[3]) {
			continue
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, baseConfidence)
		findings = append(findings, v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("SSN", keyword)))
	}
	return resolver.Resolve(findings), nil
}

// IsValid applies the SSA allocation rules: area 000, 666 and 900-999, group
// 00 and serial 0000 are never issued.
func IsValid(area, group, serial string) bool {
	if area == "000" || area == "666" {
		return false
	}
	if n, err := strconv.Atoi(area); err != nil || n >= 900 {
		return false
	}
	return group != "00" && serial != "0000"
}
