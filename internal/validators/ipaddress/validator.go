// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ipaddress

import (
	"net/netip"
	"regexp"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "IP_ADDRESS"

const baseConfidence = 0.6

// Validator implements the detector.Detector interface for detecting
// dotted IPv4 addresses.
type Validator struct {
	detector.Base
	regex  *regexp.Regexp
	scorer *ctxscore.Scorer
}

// NewValidator creates and returns a new Validator instance.
func NewValidator() *Validator {
	return &Validator{
		Base:  detector.NewBase("ipaddress", "", EntityType),
		regex: regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		scorer: ctxscore.NewScorer([]string{
			"IP adresa", "IP adresy", "IP address", "adresa IP", "IPv4", "server", "host",
		}, 0.3, ctxscore.Window{Before: 30, After: 10}),
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
		// ParseAddr rejects octets above 255 and leading zeros.
		addr, err := netip.ParseAddr(m.Value)
		if err != nil || !addr.Is4() {
			continue
		}
		// A dotted run directly continued by another dot is a version or an OID, not an address.
		if next := text.RuneAt(m.End); next == '.' && m.End+1 < text.Len() && isDigit(text.RuneAt(m.End+1)) {
			continue
		}
		if text.RuneBefore(m.Start) == '.' {
			continue
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, baseConfidence)

		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("IPv4", keyword))
		f.Metadata["scope"] = scope(addr)
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

func scope(addr netip.Addr) string {
	switch {
	case addr.IsLoopback():
		return "loopback"
	case addr.IsPrivate():
		return "private"
	case addr.IsLinkLocalUnicast():
		return "link_local"
	default:
		return "public"
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
