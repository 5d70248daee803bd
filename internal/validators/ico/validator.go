// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ico detects Czech company identification numbers (IČO).
package ico

import (
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_ICO"

const baseConfidence = 0.8

// Validator finds eight digit numbers carrying a valid IČO check digit.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates an IČO detector with the default Czech context words.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("ico", "cs", EntityType),
		regex: regexp.MustCompile(`\b\d{8}\b`),
		scorer: ctxscore.NewScorer([]string{
			"IČO", "IČ", "identifikační číslo", "identifikační číslo osoby",
			"firmy", "organizace", "company id",
		}, 0.15, ctxscore.Window{Before: 30, After: 10}),
	}
}

// Scorer returns the context scorer in use.
func (v *Validator) Scorer() *ctxscore.Scorer { return v.scorer }

// SetScorer replaces the context scorer. Call before the registry is sealed.
func (v *Validator) SetScorer(s *ctxscore.Scorer) { v.scorer = s }

// Detect implements detector.Detector.
func (v *Validator) Detect(text *detector.Text, requested detector.TypeSet, _ []detector.ModelSpan) ([]detector.Finding, error) {
	if !v.Wants(requested) {
		return nil, nil
	}

	var findings []detector.Finding
	for _, m := range detector.FindAll(v.regex, text) {
		if !ValidChecksum(m.Value) {
			continue
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, baseConfidence)
		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("IČO", keyword))
		f.Metadata["checksum_valid"] = "true"
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

// ValidChecksum reports whether an eight digit IČO has a valid check digit.
// Weights 8..2 apply to the first seven digits; the check digit is
// (11 - sum mod 11) mod 10.
func ValidChecksum(ico string) bool {
	if len(ico) != 8 {
		return false
	}
	sum := 0
	for i := 0; i < 7; i++ {
		d := ico[i] - '0'
		if d > 9 {
			return false
		}
		sum += int(d) * (8 - i)
	}
	last := ico[7] - '0'
	if last > 9 {
		return false
	}
	return (11-sum%11)%10 == int(last)
}
