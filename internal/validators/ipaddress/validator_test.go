// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ipaddress

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
		scope      string
	}{
		{"private with context", "IP adresa 192.168.1.10", "192.168.1.10", 0.9, "private"},
		{"public", "přístup z 8.8.8.8 zamítnut", "8.8.8.8", 0.6, "public"},
		{"octet too large", "256.1.1.1", "", 0, ""},
		{"version number", "verze 1.2.3.4.5", "", 0, ""},
		{"leading zero", "10.01.2021.1", "", 0, ""},
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
			assert.Equal(t, tt.scope, findings[0].Metadata["scope"])
		})
	}
}
