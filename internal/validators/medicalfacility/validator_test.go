// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package medicalfacility

import (
	"testing"

	"meddoc-anonymizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Detect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"full name", "Fakultní nemocnice v Motole", []string{"Fakultní nemocnice v Motole"}},
		{"stops at line break", "Přijat: Poliklinika Budějovická.\nDalší kontrola", []string{"Poliklinika Budějovická"}},
		{"word start only", "Polikliniková", nil},
		{"abbreviation", "FN Motol", []string{"FN Motol"}},
		{"phrase keeps to the name", "Fakultní nemocnice Motol, oddělení chirurgie", []string{"Fakultní nemocnice Motol", "oddělení chirurgie"}},
		{"phrase without a name", "Krajská nemocnice poskytla péči", []string{"Krajská nemocnice"}},
		{"phrase ends at sentence", "Převezen do FN Brno.", []string{"FN Brno"}},
		{"no facility", "Pacient bez potíží", nil},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := v.Detect(detector.NewText(tt.input), nil, nil)
			require.NoError(t, err)
			require.Len(t, findings, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w, findings[i].Text)
				assert.InDelta(t, 0.6, findings[i].Confidence, 1e-9)
			}
		})
	}
}

func TestValidator_ExpansionIsBounded(t *testing.T) {
	input := "nemocnice " + "a b c d e f g h i j k l m n o p q r s t u v w x y z a b c d e"
	findings, err := NewValidator().Detect(detector.NewText(input), nil, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.LessOrEqual(t, findings[0].Len(), len([]rune("nemocnice"))+maxExpansion)
}

func TestValidator_SetKeywords(t *testing.T) {
	v := NewValidator()
	v.SetKeywords([]string{"hospital", " "})
	assert.Equal(t, []string{"hospital"}, v.Keywords())

	findings, err := v.Detect(detector.NewText("General Hospital Brno"), nil, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Hospital Brno", findings[0].Text)
}
