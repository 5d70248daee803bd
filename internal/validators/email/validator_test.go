// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"testing"

	"meddoc-anonymizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Detect(t *testing.T) {
	v := NewValidator()
	assert.Equal(t, "", v.Language())

	text := detector.NewText("Jan Novák, id 760506/1234, email jan.novak@email.com")
	findings, err := v.Detect(text, nil, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "jan.novak@email.com", f.Text)
	assert.Equal(t, 33, f.Start)
	assert.Equal(t, 52, f.End)
	assert.InDelta(t, 1.0, f.Confidence, 1e-9)
	assert.Equal(t, "email.com", f.Metadata["domain"])
	assert.Equal(t, "EMAIL", f.Metadata["provider"])
}

func TestValidator_DetectDiacritics(t *testing.T) {
	tests := []struct {
		input string
		want  string
		start int
	}{
		{"Žofie Dvořáková, email žofie@example.cz, tel", "žofie@example.cz", 23},
		{"kontakt: jiří.čermák@nemocnice-líšeň.cz", "jiří.čermák@nemocnice-líšeň.cz", 9},
		{"(petr@seznam.cz)", "petr@seznam.cz", 1},
	}
	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			findings, err := v.Detect(detector.NewText(tt.input), nil, nil)
			require.NoError(t, err)
			require.Len(t, findings, 1)
			assert.Equal(t, tt.want, findings[0].Text)
			assert.Equal(t, tt.start, findings[0].Start)
			assert.Equal(t, tt.start+len([]rune(tt.want)), findings[0].End)
		})
	}
}

func TestValidator_DetectRejectsMalformed(t *testing.T) {
	inputs := []string{"jan..novak@seznam.cz", "plain text", "@seznam.cz", "a@b.cz1"}
	v := NewValidator()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			findings, err := v.Detect(detector.NewText(input), nil, nil)
			require.NoError(t, err)
			assert.Empty(t, findings)
		})
	}
}

func TestProvider(t *testing.T) {
	tests := map[string]string{
		"gmail.com":      "GMAIL",
		"seznam.cz":      "SEZNAM",
		"centrum.cz":     "CENTRUM",
		"fnmotol.cz":     "EMAIL",
		"is.muni.cz":     "EDUCATIONAL",
		"mvcr.gov.cz":    "GOVERNMENT",
		"protonmail.com": "PROTONMAIL",
	}
	for domain, want := range tests {
		assert.Equal(t, want, Provider(domain), domain)
	}
}
