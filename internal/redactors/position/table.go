// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package position maps offsets in an original text to offsets in its
// anonymized rewrite.
package position

import "sort"

// Segment is one contiguous piece of the rewrite. Unchanged segments copy the
// original one to one; replaced segments substitute a span.
type Segment struct {
	OrigStart int  `json:"orig_start" yaml:"orig_start"`
	OrigEnd   int  `json:"orig_end" yaml:"orig_end"`
	AnonStart int  `json:"anon_start" yaml:"anon_start"`
	AnonEnd   int  `json:"anon_end" yaml:"anon_end"`
	Replaced  bool `json:"replaced" yaml:"replaced"`
}

// Table is the ordered segment list of one rewrite. Segments tile the
// original text without gaps.
type Table struct {
	Segments []Segment `json:"segments" yaml:"segments"`
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append adds the next segment. Empty unchanged segments are skipped.
func (t *Table) Append(origLen, anonLen int, replaced bool) {
	if !replaced && origLen == 0 {
		return
	}
	var origStart, anonStart int
	if n := len(t.Segments); n > 0 {
		origStart = t.Segments[n-1].OrigEnd
		anonStart = t.Segments[n-1].AnonEnd
	}
	t.Segments = append(t.Segments, Segment{
		OrigStart: origStart,
		OrigEnd:   origStart + origLen,
		AnonStart: anonStart,
		AnonEnd:   anonStart + anonLen,
		Replaced:  replaced,
	})
}

// OriginalLen returns the length of the original text covered by the table.
func (t *Table) OriginalLen() int {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].OrigEnd
}

// AnonymizedLen returns the length of the rewritten text.
func (t *Table) AnonymizedLen() int {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].AnonEnd
}

// Translate maps an original offset to the rewritten text. Offsets inside an
// unchanged segment move by the segment's shift, as do offsets inside a
// replacement of the same length. Offsets inside any other replaced span map
// to the start of its replacement. The mapping is monotonically
// non-decreasing. Offsets past the end map to the end.
func (t *Table) Translate(orig int) int {
	if len(t.Segments) == 0 || orig <= 0 {
		return 0
	}
	i := sort.Search(len(t.Segments), func(k int) bool {
		return t.Segments[k].OrigEnd > orig
	})
	if i == len(t.Segments) {
		return t.AnonymizedLen()
	}
	seg := t.Segments[i]
	if seg.Replaced && seg.OrigEnd-seg.OrigStart != seg.AnonEnd-seg.AnonStart {
		return seg.AnonStart
	}
	return seg.AnonStart + (orig - seg.OrigStart)
}

// Dense returns Translate for every offset 0..OriginalLen inclusive.
func (t *Table) Dense() []int {
	n := t.OriginalLen()
	out := make([]int, n+1)
	for i := range out {
		out[i] = t.Translate(i)
	}
	return out
}
