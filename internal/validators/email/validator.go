// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"regexp"
	"strings"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "EMAIL_ADDRESS"

const baseConfidence = 0.9

// Validator implements the detector.Detector interface for detecting
// email addresses using a regex pattern and contextual analysis.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates and returns a new Validator instance
// with the email pattern and Czech and English context keywords.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("email", "", EntityType),
		regex: regexp.MustCompile(`[\p{L}\p{N}._%+-]+@[\p{L}\p{N}.-]+\.\p{L}{2,}`),
		scorer: ctxscore.NewScorer([]string{
			"email", "e-mail", "mail", "kontakt", "contact", "mailto",
		}, 0.1, ctxscore.Window{Before: 30, After: 10}),
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
		if !text.Bounded(m.Start, m.End) || !isValidFormat(m.Value) {
			continue
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, baseConfidence)

		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("email", keyword))
		domain := strings.ToLower(m.Value[strings.LastIndexByte(m.Value, '@')+1:])
		f.Metadata["domain"] = domain
		f.Metadata["provider"] = Provider(domain)
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

// Provider classifies a lower-case email domain.
func Provider(domain string) string {
	switch domain {
	case "gmail.com", "googlemail.com":
		return "GMAIL"
	case "outlook.com", "hotmail.com", "live.com", "msn.com", "outlook.cz", "hotmail.cz":
		return "OUTLOOK"
	case "seznam.cz", "email.cz", "post.cz", "spoluzaci.cz", "stream.cz", "firmy.cz":
		return "SEZNAM"
	case "centrum.cz", "atlas.cz", "volny.cz":
		return "CENTRUM"
	case "yahoo.com", "yahoo.co.uk", "yahoo.de":
		return "YAHOO"
	case "icloud.com", "me.com", "mac.com":
		return "ICLOUD"
	case "protonmail.com", "proton.me", "pm.me":
		return "PROTONMAIL"
	case "tiscali.cz", "quick.cz", "o2active.cz":
		return "ISP"
	}

	switch {
	case strings.HasSuffix(domain, ".edu"), strings.HasSuffix(domain, ".muni.cz"),
		strings.HasSuffix(domain, ".cuni.cz"), strings.HasSuffix(domain, ".cvut.cz"):
		return "EDUCATIONAL"
	case strings.HasSuffix(domain, ".gov"), strings.HasSuffix(domain, ".gov.cz"),
		domain == "mzcr.cz", domain == "vzp.cz":
		return "GOVERNMENT"
	}
	return "EMAIL"
}

// isValidFormat applies the RFC 5321 length limits and rejects consecutive dots.
func isValidFormat(email string) bool {
	if len(email) > 254 {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at > 64 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if strings.Contains(email, "..") || strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	return !strings.HasPrefix(domain, "-") && !strings.HasPrefix(domain, ".")
}
