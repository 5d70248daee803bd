// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package iban detects International Bank Account Numbers (ISO 13616).
package iban

import (
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "IBAN_CODE"

const baseConfidence = 0.85

// lengths is the full IBAN length per country.
var lengths = map[string]int{
	"AT": 20, "BE": 16, "BG": 22, "CH": 21, "CY": 28, "CZ": 24, "DE": 22, "DK": 18,
	"EE": 20, "ES": 24, "FI": 18, "FR": 27, "GB": 22, "GR": 27, "HR": 21, "HU": 28,
	"IE": 22, "IT": 27, "LT": 20, "LU": 20, "LV": 21, "MT": 31, "NL": 18, "NO": 15,
	"PL": 28, "PT": 25, "RO": 24, "SE": 24, "SI": 19, "SK": 24, "UA": 29,
}

// Validator finds IBANs in compact or space-grouped form.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates an IBAN detector.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("iban", "", EntityType),
		regex: regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?[A-Z0-9]{4}){2,7}(?: ?[A-Z0-9]{1,3})?\b`),
		scorer: ctxscore.NewScorer([]string{
			"IBAN", "účet", "účtu", "bankovní spojení", "account",
		}, 0.1, ctxscore.Window{Before: 40, After: 10}),
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
		country := m.Value[:2]
		want, ok := lengths[country]
		if !ok {
			continue
		}
		// The grouped pattern may run into a following token; cut at the country length.
		compact, consumed := take(m.Value, want)
		if len(compact) != want || !ValidChecksum(compact) {
			continue
		}
		end := m.Start + consumed
		confidence, keyword := v.scorer.Score(text, m.Start, end, baseConfidence)

		f := v.Finding(text, EntityType, m.Start, end, confidence, ctxscore.Explain("IBAN", keyword))
		f.Metadata["country"] = country
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

// take returns the first n non-space characters of an ASCII value and how
// many characters of value they span.
func take(value string, n int) (string, int) {
	compact := make([]byte, 0, n)
	i := 0
	for ; i < len(value) && len(compact) < n; i++ {
		if value[i] != ' ' {
			compact = append(compact, value[i])
		}
	}
	return string(compact), i
}

// ValidChecksum applies the ISO 7064 mod 97-10 check to a compact IBAN.
func ValidChecksum(iban string) bool {
	if len(iban) < 5 {
		return false
	}
	rearranged := iban[4:] + iban[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			rem = (rem*100 + int(c-'A') + 10) % 97
		default:
			return false
		}
	}
	return rem == 1
}
