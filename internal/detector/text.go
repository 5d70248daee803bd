// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"sort"
	"unicode/utf8"
)

// Text is an immutable input string indexed by Unicode code point.
//
// Regular expressions report byte offsets; every detector converts them
// through RuneOffset so findings share one offset unit.
type Text struct {
	s string

	// runeStarts[i] is the byte offset of code point i; the final entry is len(s).
	// Nil when the text is pure ASCII and both units coincide.
	runeStarts []int
	length     int
}

// NewText indexes s. Invalid UTF-8 sequences count as one code point per byte,
// matching how range loops decode them.
func NewText(s string) *Text {
	t := &Text{s: s}
	n := utf8.RuneCountInString(s)
	if n == len(s) {
		t.length = n
		return t
	}

	starts := make([]int, 0, n+1)
	for i := range s {
		starts = append(starts, i)
	}
	starts = append(starts, len(s))
	t.runeStarts = starts
	t.length = len(starts) - 1
	return t
}

// String returns the original text.
func (t *Text) String() string {
	return t.s
}

// Len returns the number of code points.
func (t *Text) Len() int {
	return t.length
}

// ByteLen returns the size of the text in bytes.
func (t *Text) ByteLen() int {
	return len(t.s)
}

// ByteOffset converts a code point offset to a byte offset.
func (t *Text) ByteOffset(runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	if runeOffset >= t.length {
		return len(t.s)
	}
	if t.runeStarts == nil {
		return runeOffset
	}
	return t.runeStarts[runeOffset]
}

// RuneOffset converts a byte offset to a code point offset. ok is false when
// the byte offset is out of range or falls inside a multi-byte sequence.
func (t *Text) RuneOffset(byteOffset int) (int, bool) {
	if byteOffset < 0 || byteOffset > len(t.s) {
		return 0, false
	}
	if t.runeStarts == nil {
		return byteOffset, true
	}
	i := sort.SearchInts(t.runeStarts, byteOffset)
	if i >= len(t.runeStarts) || t.runeStarts[i] != byteOffset {
		return i, false
	}
	return i, true
}

// Slice returns the substring between two code point offsets.
func (t *Text) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > t.length {
		end = t.length
	}
	if start >= end {
		return ""
	}
	return t.s[t.ByteOffset(start):t.ByteOffset(end)]
}

// Window returns up to before code points preceding start and up to after
// code points following end.
func (t *Text) Window(start, end, before, after int) (string, string) {
	return t.Slice(start-before, start), t.Slice(end, end+after)
}

// ValidSpan reports whether [start,end) is a non-empty span inside the text.
func (t *Text) ValidSpan(start, end int) bool {
	return start >= 0 && start < end && end <= t.length
}
