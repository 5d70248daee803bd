// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"regexp"
	"unicode"
)

// Submatch is one regular expression match expressed in code points.
type Submatch struct {
	Start  int
	End    int
	Value  string
	Groups []string // Groups[0] is the whole match; unmatched groups are ""
}

// Pattern is a named regular expression with the confidence its matches start from.
type Pattern struct {
	Name       string
	Regex      *regexp.Regexp
	Confidence float64
	// Threshold drops matches whose final confidence is not above it. Zero keeps every match.
	Threshold float64
}

// Keep reports whether a final confidence passes the pattern's threshold.
func (p Pattern) Keep(confidence float64) bool {
	return p.Threshold == 0 || confidence > p.Threshold
}

// FindAll runs re over text and converts every match to code point offsets.
func FindAll(re *regexp.Regexp, text *Text) []Submatch {
	s := text.String()
	indexes := re.FindAllStringSubmatchIndex(s, -1)
	if len(indexes) == 0 {
		return nil
	}

	matches := make([]Submatch, 0, len(indexes))
	for _, loc := range indexes {
		start, okStart := text.RuneOffset(loc[0])
		end, okEnd := text.RuneOffset(loc[1])
		if !okStart || !okEnd || start >= end {
			continue
		}

		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = s[loc[2*g]:loc[2*g+1]]
			}
		}
		matches = append(matches, Submatch{
			Start:  start,
			End:    end,
			Value:  groups[0],
			Groups: groups,
		})
	}
	return matches
}

// RuneBefore returns the code point preceding offset, or 0 at the start of text.
func (t *Text) RuneBefore(offset int) rune {
	if offset <= 0 || offset > t.length {
		return 0
	}
	for _, r := range t.Slice(offset-1, offset) {
		return r
	}
	return 0
}

// RuneAt returns the code point at offset, or 0 past the end of text.
func (t *Text) RuneAt(offset int) rune {
	if offset < 0 || offset >= t.length {
		return 0
	}
	for _, r := range t.Slice(offset, offset+1) {
		return r
	}
	return 0
}

// IsWordRune reports whether r is a letter or digit in any script. Unlike the
// ASCII-only \b of regexp it treats Czech letters as word characters.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Bounded reports whether [start,end) is not glued to a word character on
// either side.
func (t *Text) Bounded(start, end int) bool {
	return !IsWordRune(t.RuneBefore(start)) && !IsWordRune(t.RuneAt(end))
}
