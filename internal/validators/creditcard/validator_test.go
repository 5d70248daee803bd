// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import (
	"testing"

	"meddoc-anonymizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLuhnCheck(t *testing.T) {
	assert.True(t, LuhnCheck("4111111111111111"))
	assert.True(t, LuhnCheck("378282246310005"))
	assert.False(t, LuhnCheck("4111111111111112"))
	assert.False(t, LuhnCheck("41111a1111111111"))
}

func TestValidator_Detect(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		vendor     string
		confidence float64
	}{
		{"spaced visa with context", "platební karta 4111 1111 1111 1111", "4111 1111 1111 1111", "Visa", 0.95},
		{"dashed amex", "3782-822463-10005", "3782-822463-10005", "American Express", 0.8},
		{"compact", "5555555555554444", "5555555555554444", "MasterCard", 0.8},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := v.Detect(detector.NewText(tt.input), nil, nil)
			require.NoError(t, err)
			require.Len(t, findings, 1)
			assert.Equal(t, tt.want, findings[0].Text)
			assert.Equal(t, tt.vendor, findings[0].Metadata["vendor"])
			assert.InDelta(t, tt.confidence, findings[0].Confidence, 1e-9)
		})
	}
}

func TestValidator_DetectRejectsLuhnFailure(t *testing.T) {
	findings, err := NewValidator().Detect(detector.NewText("4111 1111 1111 1112"), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
}
