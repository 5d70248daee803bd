// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dic

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
		wantCount  int
		confidence float64
	}{
		{"with context", "DIČ: CZ25596641", 1, 0.95},
		{"without context", "odběratel CZ7605061234", 1, 0.85},
		{"too short", "CZ1234567", 0, 0},
		{"embedded", "XCZ25596641", 0, 0},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := v.Detect(detector.NewText(tt.input), nil, nil)
			require.NoError(t, err)
			require.Len(t, findings, tt.wantCount)
			if tt.wantCount > 0 {
				assert.InDelta(t, tt.confidence, findings[0].Confidence, 1e-9)
				assert.Equal(t, "CZ", findings[0].Metadata["vat_id_country"])
			}
		})
	}
}
