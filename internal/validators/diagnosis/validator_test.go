// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package diagnosis

import (
	"testing"

	"meddoc-anonymizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Detect(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		confidence float64
	}{
		{"dotted without context", "astma J45.0 stabilizované", "J45.0", 0.6},
		{"dotted with context", "Dg.: J45.0", "J45.0", 0.9},
		{"bare with context", "diagnóza I10", "I10", 0.65},
		{"bare without context", "model A10", "", 0},
		{"reserved chapter", "Dg.: U07.1", "", 0},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := v.Detect(detector.NewText(tt.input), nil, nil)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, tt.want, findings[0].Text)
			assert.InDelta(t, tt.confidence, findings[0].Confidence, 1e-9)
		})
	}
}
