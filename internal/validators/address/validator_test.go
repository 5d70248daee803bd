// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"testing"

	"meddoc-anonymizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_DetectFullAddress(t *testing.T) {
	findings, err := NewValidator().Detect(detector.NewText("Bydliště: Vinohradská 1234/56, 120 00 Praha 2\nDg.: J45.0"), nil, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "Vinohradská 1234/56, 120 00 Praha 2", f.Text)
	assert.InDelta(t, 1.0, f.Confidence, 1e-9)
	assert.Equal(t, "Vinohradská", f.Metadata["street"])
	assert.Equal(t, "1234/56", f.Metadata["house_number"])
	assert.Equal(t, "120 00", f.Metadata["zip"])
	assert.Equal(t, "Praha 2", f.Metadata["city"])
}

func TestValidator_DetectCityBeforeZIP(t *testing.T) {
	findings, err := NewValidator().Detect(detector.NewText("Hlavní 12, Praha 1, 110 00"), nil, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1, "one address, not a street and a district")
	assert.Equal(t, "Praha 1", findings[0].Metadata["city"])
	assert.Equal(t, "110 00", findings[0].Metadata["zip"])
}

func TestValidator_Detect(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		confidence float64
	}{
		{"street zip city", "Na Příkopě 12, 110 00 Praha", "Na Příkopě 12, 110 00 Praha", 0.8},
		{"street zip with label", "Dlouhá 5, PSČ 602 00", "Dlouhá 5, PSČ 602 00", 0.6},
		{"city between street and zip", "Hlavní 12, Praha 1, 110 00", "Hlavní 12, Praha 1, 110 00", 0.8},
		{"city and label before zip", "Masarykova 3, Brno, PSČ 602 00", "Masarykova 3, Brno, PSČ 602 00", 0.8},
		{"lone street with context", "adresa: Dlouhá 5", "Dlouhá 5", 0.65},
		{"zip and city with context", "PSČ 602 00 Brno", "602 00 Brno", 0.65},
		{"lone street without context", "Pacient 45 let", "", 0},
		{"lowercase word", "dávka 5 mg", "", 0},
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
