// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package birthnumber detects Czech birth numbers (rodné číslo).
package birthnumber

import (
	"regexp"
	"strconv"
	"time"

	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_BIRTH_NUMBER"

const (
	slashConfidence   = 0.85
	compactConfidence = 0.75
	checksumBonus     = 0.1
)

// Pattern matches the YYMMDD[/]XXX(X) shape. Groups: year, month, day, slash, suffix.
var Pattern = regexp.MustCompile(`\b(\d{2})(\d{2})(\d{2})(/?)(\d{3,4})\b`)

// Parsed holds the structural reading of a birth number.
type Parsed struct {
	BirthDate     time.Time
	Female        bool
	Slash         bool
	ChecksumValid bool
}

// Gender returns "female" or "male".
func (p Parsed) Gender() string {
	if p.Female {
		return "female"
	}
	return "male"
}

// Parse interprets the regex groups of a Pattern match. It returns false when
// the date part is impossible or the nine digit form is used after 1953.
//
// A failed modulo 11 check does not reject the number: many numbers issued in
// practice do not satisfy it.
func Parse(groups []string) (Parsed, bool) {
	if len(groups) < 6 {
		return Parsed{}, false
	}
	yy, _ := strconv.Atoi(groups[1])
	mm, _ := strconv.Atoi(groups[2])
	dd, _ := strconv.Atoi(groups[3])
	slash := groups[4] == "/"
	suffix := groups[5]

	var p Parsed
	p.Slash = slash

	switch {
	case mm >= 1 && mm <= 12:
	case mm >= 21 && mm <= 32:
		mm -= 20
	case mm >= 51 && mm <= 62:
		mm -= 50
		p.Female = true
	case mm >= 71 && mm <= 82:
		mm -= 70
		p.Female = true
	default:
		return Parsed{}, false
	}

	var year int
	if len(suffix) == 3 {
		// Nine digit numbers were issued until the end of 1953 and are always written with a slash.
		if !slash || yy >= 54 {
			return Parsed{}, false
		}
		year = 1900 + yy
	} else if yy >= 54 {
		year = 1900 + yy
	} else {
		year = 2000 + yy
	}

	date := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if dd < 1 || date.Day() != dd || int(date.Month()) != mm {
		return Parsed{}, false
	}
	p.BirthDate = date

	if len(suffix) == 4 {
		p.ChecksumValid = validChecksum(groups[1] + groups[2] + groups[3] + suffix)
	}
	return p, true
}

// validChecksum applies the modulo 11 rule to a ten digit birth number. When
// the first nine digits leave remainder 10 the check digit is 0.
func validChecksum(digits string) bool {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return false
	}
	if n%11 == 0 {
		return true
	}
	return (n/10)%11 == 10 && n%10 == 0
}

// Validator finds birth numbers.
type Validator struct {
	detector.Base
	scorer *ctxscore.Scorer
}

// NewValidator creates a birth number detector.
func NewValidator() *Validator {
	return &Validator{
		Base: detector.NewBase("birthnumber", "cs", EntityType),
		scorer: ctxscore.NewScorer([]string{
			"rodné číslo", "rodného čísla", "r.č.", "r. č.", "rč:", "nar.",
			"narozen", "datum narození", "birth number",
		}, 0.1, ctxscore.Window{Before: 50, After: 20}),
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
	for _, m := range detector.FindAll(Pattern, text) {
		parsed, ok := Parse(m.Groups)
		if !ok {
			continue
		}

		base := compactConfidence
		if parsed.Slash {
			base = slashConfidence
		}
		if parsed.ChecksumValid {
			base += checksumBonus
		}
		confidence, keyword := v.scorer.Score(text, m.Start, m.End, base)

		f := v.Finding(text, EntityType, m.Start, m.End, confidence, ctxscore.Explain("rodné číslo", keyword))
		f.Metadata["birth_date"] = parsed.BirthDate.Format("2006-01-02")
		f.Metadata["gender"] = parsed.Gender()
		f.Metadata["checksum_valid"] = strconv.FormatBool(parsed.ChecksumValid)
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}
