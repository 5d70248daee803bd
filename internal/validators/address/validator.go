// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package address detects Czech postal addresses: a street with a house
// number, optionally followed by a ZIP code, with the city before or after it.
package address

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_ADDRESS"

const (
	fullConfidence    = 0.6
	cityBonus         = 0.2
	partialConfidence = 0.4
	partialThreshold  = 0.5

	// maxGap is the most code points allowed between a house number and its ZIP code.
	maxGap = 100
)

var (
	streetRegex = regexp.MustCompile(`(?:(?:ulice|ul\.|náměstí|nám\.|třída|tř\.|nábřeží|nábř\.)[ \t]+)?` +
		`(\p{Lu}\p{L}*\.?(?:[ \t]+(?:\p{Lu}\p{L}*\.?|\d{1,2}\.|na|nad|pod|u|ve|v|za)){0,3})` +
		`[ \t]+(\d{1,5}[a-zA-Z]?(?:\s?/\s?\d{1,5}[a-zA-Z]?)?)\b`)
	zipRegex  = regexp.MustCompile(`\b\d{3} ?\d{2}\b`)
	cityRegex = regexp.MustCompile(`^[ \t]*(\p{Lu}\p{L}+(?:[ \t]+(?:\d{1,2}\b|\p{Lu}\p{L}+))?)`)
	gapRegex  = regexp.MustCompile(`^[\s,;]*(?:(\p{Lu}\p{L}+(?:[ \t]+(?:\d{1,2}|\p{Lu}\p{L}+))?)[\s,;]+)?(?:(?i:psč)[:.]?\s*)?$`)
)

// Validator finds addresses. Candidates with a street, a ZIP code and a city
// rank highest; partial addresses need address context to be reported.
type Validator struct {
	detector.Base
	scorer *ctxscore.Scorer
}

// NewValidator creates an address detector.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("address", "cs", EntityType),
		scorer: ctxscore.NewScorer([]string{
			"adresa", "adrese", "bydliště", "bytem", "trvalé bydliště", "sídlo", "sídlem",
			"ulice", "ul.", "náměstí", "nám.", "třída", "nábřeží", "obec", "město", "psč",
			"address", "bydlí",
		}, 0.25, ctxscore.Window{Before: 50, After: 50}),
	}
}

// Scorer returns the context scorer in use.
func (v *Validator) Scorer() *ctxscore.Scorer { return v.scorer }

// SetScorer replaces the context scorer.
func (v *Validator) SetScorer(s *ctxscore.Scorer) { v.scorer = s }

type city struct {
	name string
	end  int
}

// Detect implements detector.Detector.
func (v *Validator) Detect(text *detector.Text, requested detector.TypeSet, _ []detector.ModelSpan) ([]detector.Finding, error) {
	if !v.Wants(requested) {
		return nil, nil
	}

	zips := detector.FindAll(zipRegex, text)

	var findings []detector.Finding
	for _, street := range detector.FindAll(streetRegex, text) {
		if unicode.IsLetter(text.RuneBefore(street.Start)) {
			continue
		}

		meta := map[string]string{
			"street":       street.Groups[1],
			"house_number": street.Groups[2],
		}

		zip, between, ok := followingZIP(text, street, zips)
		if !ok {
			if f, keep := v.candidate(text, street.Start, street.End, partialConfidence, meta); keep {
				findings = append(findings, f)
			}
			continue
		}

		end := zip.End
		base := fullConfidence
		meta["zip"] = zip.Value
		if between != "" {
			base += cityBonus
			meta["city"] = between
		} else if c, ok := cityAfter(text, zip.End); ok {
			end = c.end
			base += cityBonus
			meta["city"] = c.name
		}
		f, _ := v.candidate(text, street.Start, end, base, meta)
		findings = append(findings, f)
	}

	// ZIP code and city without a street.
	for _, zip := range zips {
		c, ok := cityAfter(text, zip.End)
		if !ok {
			continue
		}
		meta := map[string]string{"zip": zip.Value, "city": c.name}
		if f, keep := v.candidate(text, zip.Start, c.end, partialConfidence, meta); keep {
			findings = append(findings, f)
		}
	}

	return resolver.Resolve(findings), nil
}

// candidate scores a span and reports whether a partial address clears its threshold.
func (v *Validator) candidate(text *detector.Text, start, end int, base float64, meta map[string]string) (detector.Finding, bool) {
	confidence, keyword := v.scorer.Score(text, start, end, base)
	f := v.Finding(text, EntityType, start, end, confidence, ctxscore.Explain("adresa", keyword))
	for k, val := range meta {
		f.Metadata[k] = val
	}
	keep := base > partialConfidence || confidence > partialThreshold
	return f, keep
}

// followingZIP returns the first ZIP code after street separated from it only
// by punctuation, whitespace, a city name or a "PSČ" label. city is the name
// found between the two, if any.
func followingZIP(text *detector.Text, street detector.Submatch, zips []detector.Submatch) (detector.Submatch, string, bool) {
	for _, zip := range zips {
		if zip.Start < street.End {
			continue
		}
		if zip.Start-street.End > maxGap {
			break
		}
		groups := gapRegex.FindStringSubmatch(text.Slice(street.End, zip.Start))
		if groups == nil {
			break
		}
		if strings.EqualFold(groups[1], "psč") {
			groups[1] = ""
		}
		return zip, groups[1], true
	}
	return detector.Submatch{}, "", false
}

// cityAfter reads a capitalised city name, optionally with a district number,
// directly after offset.
func cityAfter(text *detector.Text, offset int) (city, bool) {
	rest := text.Slice(offset, text.Len())
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	loc := cityRegex.FindStringSubmatchIndex(rest)
	if loc == nil {
		return city{}, false
	}
	return city{
		name: rest[loc[2]:loc[3]],
		end:  offset + utf8.RuneCountInString(rest[:loc[3]]),
	}, true
}
