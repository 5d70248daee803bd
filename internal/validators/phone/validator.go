// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"regexp"
	"strings"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_PHONE_NUMBER"

const (
	localConfidence         = 0.7
	internationalConfidence = 0.8
)

// Validator implements the detector.Detector interface for detecting
// Czech phone numbers, with or without the +420 prefix.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates and returns a new phone number detector.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("phone", "cs", EntityType),
		regex: regexp.MustCompile(`(\+420 ?)?\d{3} ?\d{3} ?\d{3}\b`),
		scorer: ctxscore.NewScorer([]string{
			"tel", "telefon", "mobil", "tel.", "číslo", "volejte", "kontakt", "phone",
		}, 0.2, ctxscore.Window{Before: 30, After: 10}),
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
		if !standalone(text, m.Start, m.End) {
			continue
		}

		base := localConfidence
		if m.Groups[1] != "" {
			base = internationalConfidence
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, base)

		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("telefonní číslo", keyword))
		f.Metadata["normalized_value"] = Normalize(m.Value)
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

// standalone rejects digit runs that continue a longer number, an account
// number (123/0100) or a dashed identifier.
func standalone(text *detector.Text, start, end int) bool {
	switch prev := text.RuneBefore(start); {
	case prev >= '0' && prev <= '9', prev == '/', prev == '-', prev == '+':
		return false
	}
	return text.RuneAt(end) != '/'
}

// Normalize returns the number in +420XXXXXXXXX form.
func Normalize(value string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	digits = strings.TrimPrefix(digits, "420")
	if len(digits) != 9 {
		return value
	}
	return "+420" + digits
}
