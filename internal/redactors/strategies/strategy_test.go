// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"regexp"
	"testing"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/redactors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(entityType, text string) detector.Finding {
	return detector.Finding{EntityType: entityType, Text: text, End: len([]rune(text))}
}

func TestSet_Apply(t *testing.T) {
	set := NewSet(redactors.OperatorConfig{MaskChar: '#'})

	tests := []struct {
		name string
		spec redactors.OperatorSpec
		span detector.Finding
		want string
	}{
		{"replace default", redactors.OperatorSpec{Operator: redactors.OperatorReplace}, span("PERSON", "Jan Novák"), "[PERSON]"},
		{"replace template", redactors.OperatorSpec{Operator: redactors.OperatorReplace, Template: "<{type}>"}, span("PERSON", "Jan Novák"), "<PERSON>"},
		{"mask counts code points", redactors.OperatorSpec{Operator: redactors.OperatorMask}, span("PERSON", "Jan Novák"), "#########"},
		{"redact", redactors.OperatorSpec{Operator: redactors.OperatorRedact}, span("PERSON", "Jan Novák"), ""},
		{"keep", redactors.OperatorSpec{Operator: redactors.OperatorKeep}, span("PERSON", "Jan Novák"), "Jan Novák"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := set.Apply(tt.span, tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := set.Apply(span("PERSON", "x"), redactors.OperatorSpec{Operator: redactors.Operator(42)})
	assert.ErrorIs(t, err, detector.ErrInvalidInput)
}

func TestHashStrategy(t *testing.T) {
	h := NewHashStrategy()
	tokenShape := regexp.MustCompile(`^<PERSON_[a-p]{8,}>$`)

	a1 := h.Apply(span("PERSON", "Jan Novák"), redactors.OperatorSpec{})
	b := h.Apply(span("PERSON", "Petra Svobodová"), redactors.OperatorSpec{})
	a2 := h.Apply(span("PERSON", "Jan Novák"), redactors.OperatorSpec{})

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.Regexp(t, tokenShape, a1)
	assert.Regexp(t, tokenShape, b)
	assert.NotRegexp(t, `[0-9@]`, a1)

	// Deterministic across requests.
	assert.Equal(t, a1, NewHashStrategy().Apply(span("PERSON", "Jan Novák"), redactors.OperatorSpec{}))
	// The entity type is part of the digest.
	other := NewHashStrategy().Apply(span("CZECH_ICO", "Jan Novák"), redactors.OperatorSpec{})
	assert.NotEqual(t, a1[len("<PERSON_"):], other[len("<CZECH_ICO_"):])
}

func TestHashStrategy_CollisionLengthensToken(t *testing.T) {
	h := NewHashStrategy()
	first := h.Apply(span("PERSON", "Jan Novák"), redactors.OperatorSpec{})

	// Claim the next text's short token for a different key.
	short := "<PERSON_" + letters("PERSON", "Petra Svobodová")[:hashTokenLen] + ">"
	h.owners[short] = hashKey{entityType: "PERSON", text: "someone else"}

	second := h.Apply(span("PERSON", "Petra Svobodová"), redactors.OperatorSpec{})
	assert.NotEqual(t, short, second)
	assert.NotEqual(t, first, second)
	assert.Len(t, second, len(short)+4)
}

func TestValidateTemplate(t *testing.T) {
	assert.NoError(t, ValidateTemplate("[{type}]"))
	assert.ErrorIs(t, ValidateTemplate("ID-{type}-1"), detector.ErrInvalidInput)
	assert.ErrorIs(t, ValidateTemplate("x@y"), detector.ErrInvalidInput)

	assert.NoError(t, ValidateMaskChar('*'))
	assert.Error(t, ValidateMaskChar('0'))
	assert.Error(t, ValidateMaskChar('x'))
}
