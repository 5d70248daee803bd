// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package medicalfacility detects names of Czech healthcare facilities.
//
// A facility keyword anchors the name. Single-word keywords ("nemocnice")
// extend to the right over a fixed character window; multi-word keywords
// ("fakultní nemocnice") already name the facility type and extend only over
// the proper name that follows. Neither rule is phrase aware, so the detector
// reports a modest confidence.
package medicalfacility

import (
	"strings"
	"unicode"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "CZECH_MEDICAL_FACILITY"

const (
	confidence = 0.6
	// maxExpansion is how many code points past the keyword a name may extend.
	maxExpansion = 50
)

// DefaultKeywords anchor facility names. Longer phrases come first so they win
// ties against the shorter keywords they contain.
var DefaultKeywords = []string{
	"fakultní nemocnice", "krajská nemocnice", "městská nemocnice", "nemocnice",
	"poliklinika", "klinika", "zdravotní středisko", "léčebna dlouhodobě nemocných",
	"léčebna", "sanatorium", "ordinace", "ambulance", "ústav", "centrum", "oddělení",
	"lékařský dům", "hospic", "lázně", "fn ",
}

// Validator finds facility names anchored on a keyword.
type Validator struct {
	detector.Base
	keywords [][]rune
	phrase   []bool
	source   []string
}

// NewValidator creates a facility name detector with DefaultKeywords.
func NewValidator() *Validator {
	v := &Validator{Base: detector.NewBase("medicalfacility", "cs", EntityType)}
	v.SetKeywords(DefaultKeywords)
	return v
}

// Keywords returns the anchor keywords.
func (v *Validator) Keywords() []string {
	return append([]string(nil), v.source...)
}

// SetKeywords replaces the anchor keywords.
func (v *Validator) SetKeywords(keywords []string) {
	v.source = nil
	v.keywords = nil
	v.phrase = nil
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		v.source = append(v.source, kw)
		v.keywords = append(v.keywords, lowerRunes(kw))
		v.phrase = append(v.phrase, strings.ContainsRune(kw, ' '))
	}
}

// Detect implements detector.Detector.
func (v *Validator) Detect(text *detector.Text, requested detector.TypeSet, _ []detector.ModelSpan) ([]detector.Finding, error) {
	if !v.Wants(requested) {
		return nil, nil
	}

	runes := []rune(text.String())
	lower := lowerRunes(text.String())

	var findings []detector.Finding
	for i := range lower {
		if i > 0 && unicode.IsLetter(lower[i-1]) {
			continue
		}
		for k, kw := range v.keywords {
			if !hasPrefix(lower[i:], kw) {
				continue
			}
			var end int
			if v.phrase[k] {
				end = expandName(runes, i+len(kw))
			} else {
				end = expand(runes, i+len(kw))
			}
			if end <= i {
				continue
			}
			f := v.Finding(text, EntityType, i, end, confidence, "matched facility keyword '"+v.source[k]+"'")
			f.Metadata["keyword"] = v.source[k]
			findings = append(findings, f)
			break
		}
	}
	return resolver.Resolve(findings), nil
}

// expand extends a name from pos over letters, digits and " .,-()" for at
// most maxExpansion code points, stops at a line break and trims trailing
// punctuation.
func expand(runes []rune, pos int) int {
	end := pos
	for end < len(runes) && end-pos < maxExpansion {
		r := runes[end]
		if r == '\n' || r == '\r' {
			break
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(" .,-()", r) {
			break
		}
		end++
	}
	for end > 0 && !unicode.IsLetter(runes[end-1]) && !unicode.IsDigit(runes[end-1]) {
		end--
	}
	return end
}

// prepositions may join a facility type to its name ("nemocnice v Motole").
var prepositions = map[string]bool{"v": true, "ve": true, "na": true, "u": true, "pod": true, "nad": true}

// expandName extends a name from pos over capitalised words and numbers
// separated by single spaces or tabs. A preposition is kept only when a
// capitalised word follows it.
func expandName(runes []rune, pos int) int {
	end := pos
	for i := pos; i < len(runes); {
		j := i
		for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') {
			j++
		}
		if j == i && i != pos {
			break
		}
		w := j
		for w < len(runes) && (unicode.IsLetter(runes[w]) || unicode.IsDigit(runes[w]) || runes[w] == '-' || runes[w] == '.') {
			w++
		}
		if w == j || w-pos > maxExpansion {
			break
		}
		word := runes[j:w]
		if unicode.IsUpper(word[0]) || unicode.IsDigit(word[0]) {
			end = w
		} else if !prepositions[string(word)] {
			break
		}
		i = w
	}
	for end > 0 && !unicode.IsLetter(runes[end-1]) && !unicode.IsDigit(runes[end-1]) {
		end--
	}
	return end
}

func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}
