// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import (
	"regexp"
	"strconv"
	"strings"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CREDIT_CARD"

const baseConfidence = 0.8

// Validator implements the detector.Detector interface for detecting
// payment card numbers validated with the Luhn algorithm.
type Validator struct {
	detector.Base
	regex     *regexp.Regexp
	binRanges []BINRange
	scorer    *ctxscore.Scorer
}

// BINRange represents a range of issuer identification numbers for one vendor
type BINRange struct {
	Start  int
	End    int
	Vendor string
}

// NewValidator creates and returns a new Validator instance
// with the card number pattern, BIN ranges and payment context keywords.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("creditcard", "", EntityType),
		// 13 to 19 digits, optionally grouped by single spaces or dashes
		regex:     regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`),
		binRanges: initBINRanges(),
		scorer: ctxscore.NewScorer([]string{
			"karta", "karty", "kartou", "platební karta", "číslo karty",
			"credit card", "card number", "visa", "mastercard",
		}, 0.15, ctxscore.Window{Before: 50, After: 20}),
	}
}

// initBINRanges creates BIN ranges using range checks
func initBINRanges() []BINRange {
	return []BINRange{
		{400000, 499999, "Visa"},
		{510000, 559999, "MasterCard"},
		{222100, 272099, "MasterCard"},
		{340000, 349999, "American Express"},
		{370000, 379999, "American Express"},
		{601100, 601199, "Discover"},
		{644000, 649999, "Discover"},
		{650000, 659999, "Discover"},
		{350000, 359999, "JCB"},
		{300000, 309999, "Diners Club"},
		{360000, 369999, "Diners Club"},
		{380000, 389999, "Diners Club"},
		{620000, 629999, "UnionPay"},
		{500000, 509999, "Maestro"},
		{560000, 589999, "Maestro"},
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
		number := strings.NewReplacer(" ", "", "-", "").Replace(m.Value)
		if len(number) < 13 || len(number) > 19 || !LuhnCheck(number) {
			continue
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, baseConfidence)

		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("Luhn", keyword))
		f.Metadata["vendor"] = v.DetectCardVendor(number)
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

// DetectCardVendor returns the card vendor for a digits-only number.
func (v *Validator) DetectCardVendor(number string) string {
	if len(number) < 6 {
		return "Unknown"
	}
	bin, err := strconv.Atoi(number[:6])
	if err != nil {
		return "Unknown"
	}
	for _, r := range v.binRanges {
		if bin >= r.Start && bin <= r.End {
			return r.Vendor
		}
	}
	return "Unknown"
}

// LuhnCheck validates a digits-only number with the Luhn algorithm.
func LuhnCheck(number string) bool {
	sum := 0
	isDouble := false

	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if digit < 0 || digit > 9 {
			return false
		}
		if isDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		isDouble = !isDouble
	}

	return sum%10 == 0
}
