// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_ASCII(t *testing.T) {
	text := NewText("hello world")

	assert.Equal(t, 11, text.Len())
	assert.Equal(t, "world", text.Slice(6, 11))

	off, ok := text.RuneOffset(6)
	assert.True(t, ok)
	assert.Equal(t, 6, off)
}

func TestText_MultiByteOffsets(t *testing.T) {
	// "Novák" carries a two-byte á.
	text := NewText("Jan Novák, id 1")

	assert.Equal(t, 15, text.Len())
	assert.Equal(t, 16, text.ByteLen())
	assert.Equal(t, "Novák", text.Slice(4, 9))
	assert.Equal(t, 10, text.ByteOffset(9))

	off, ok := text.RuneOffset(10)
	require.True(t, ok)
	assert.Equal(t, 9, off)

	// Byte 8 is the second byte of á.
	_, ok = text.RuneOffset(8)
	assert.False(t, ok)

	_, ok = text.RuneOffset(99)
	assert.False(t, ok)
}

func TestText_Window(t *testing.T) {
	text := NewText("číslo účtu 123/0100 platba")

	before, after := text.Window(11, 19, 5, 3)
	assert.Equal(t, "účtu ", before)
	assert.Equal(t, " pl", after)

	before, after = text.Window(0, 5, 10, 0)
	assert.Empty(t, before)
	assert.Empty(t, after)
}

func TestFindAll_ConvertsToCodePoints(t *testing.T) {
	text := NewText("Žluťoučký kůň: CZ12345678")
	re := regexp.MustCompile(`CZ(\d{8})`)

	matches := FindAll(re, text)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "CZ12345678", m.Value)
	assert.Equal(t, "12345678", m.Groups[1])
	assert.Equal(t, m.Value, text.Slice(m.Start, m.End))
	assert.Equal(t, 15, m.Start)
}

func TestText_RuneNeighbours(t *testing.T) {
	text := NewText("ač1")
	assert.Equal(t, 'č', text.RuneBefore(2))
	assert.Equal(t, '1', text.RuneAt(2))
	assert.Equal(t, rune(0), text.RuneBefore(0))
	assert.Equal(t, rune(0), text.RuneAt(3))
}

func TestText_Bounded(t *testing.T) {
	text := NewText("žofie a@b.cz, x")
	tests := []struct {
		start, end int
		want       bool
	}{
		{0, 5, true},
		{1, 5, false},
		{6, 12, true},
		{6, 11, false},
		{14, 15, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, text.Bounded(tt.start, tt.end), "[%d,%d)", tt.start, tt.end)
	}
}

func TestParseTypes(t *testing.T) {
	assert.True(t, ParseTypes(nil).Allows("EMAIL_ADDRESS"))
	assert.True(t, ParseTypes([]string{"all"}).Allows("PERSON"))

	set := ParseTypes([]string{" czech_ico ", "PERSON"})
	assert.True(t, set.Allows("CZECH_ICO"))
	assert.False(t, set.Allows("EMAIL_ADDRESS"))
	assert.True(t, set.AllowsAny([]string{"EMAIL_ADDRESS", "PERSON"}))
	assert.Equal(t, []string{"CZECH_ICO", "PERSON"}, set.Names())
}

func TestFinding_Overlaps(t *testing.T) {
	a := Finding{Start: 0, End: 5}
	assert.True(t, a.Overlaps(Finding{Start: 4, End: 6}))
	assert.False(t, a.Overlaps(Finding{Start: 5, End: 6}))
	assert.True(t, a.Overlaps(Finding{Start: 1, End: 2}))
}
