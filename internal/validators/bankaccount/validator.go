// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package bankaccount detects Czech domestic bank account numbers
// ([prefix-]number/bank code).
package bankaccount

import (
	"regexp"
	"strconv"
	"strings"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_BANK_ACCOUNT_NUMBER"

const (
	baseConfidence = 0.75
	checksumBonus  = 0.1
)

var (
	prefixWeights = []int{10, 5, 8, 4, 2, 1}
	numberWeights = []int{6, 3, 7, 9, 10, 5, 8, 4, 2, 1}
)

// Validator finds domestic account numbers.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates a bank account detector.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("bankaccount", "cs", EntityType),
		regex: regexp.MustCompile(`\b(?:(\d{1,6})-)?(\d{2,10})/(\d{4})\b`),
		scorer: ctxscore.NewScorer([]string{
			"účet", "účtu", "č.ú.", "č. ú.", "číslo účtu", "bankovní účet",
			"bankovní spojení", "platba na", "úhrada na", "account",
		}, 0.2, ctxscore.Window{Before: 50, After: 20}),
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
		prefix, number, bank := m.Groups[1], m.Groups[2], m.Groups[3]

		valid := ValidChecksum(prefix, number)
		base := baseConfidence
		if valid {
			base += checksumBonus
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, base)

		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("číslo účtu", keyword))
		if prefix != "" {
			f.Metadata["prefix"] = prefix
		}
		f.Metadata["account_number"] = number
		f.Metadata["bank_code"] = bank
		f.Metadata["checksum_valid"] = strconv.FormatBool(valid)
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

// ValidChecksum applies the Czech National Bank weighted modulo 11 check to
// the prefix (may be empty) and the account number.
func ValidChecksum(prefix, number string) bool {
	if prefix != "" && !weightedMod11(prefix, prefixWeights) {
		return false
	}
	return weightedMod11(number, numberWeights)
}

func weightedMod11(digits string, weights []int) bool {
	if len(digits) > len(weights) {
		return false
	}
	padded := strings.Repeat("0", len(weights)-len(digits)) + digits
	sum := 0
	for i, w := range weights {
		d := padded[i] - '0'
		if d > 9 {
			return false
		}
		sum += int(d) * w
	}
	return sum%11 == 0
}
