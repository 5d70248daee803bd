// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticProvider CheckInfo

func (p staticProvider) GetCheckInfo() CheckInfo { return CheckInfo(p) }

func TestSystem_Catalogue(t *testing.T) {
	h := NewSystem(true)
	h.RegisterProvider(staticProvider{Name: "EMAIL_ADDRESS", ShortDescription: "Email addresses"})
	h.RegisterProvider(staticProvider{Name: "CZECH_ICO", Language: "cs", ShortDescription: "Company ids"})

	var out bytes.Buffer
	h.WriteCatalogue(&out)

	assert.Equal(t, []string{"CZECH_ICO", "EMAIL_ADDRESS"}, h.Names())
	assert.Contains(t, out.String(), "CZECH_ICO")
	assert.Contains(t, out.String(), "any")
}

func TestSystem_WriteCheck(t *testing.T) {
	h := NewSystem(true)
	h.RegisterProvider(staticProvider{
		Name:                "CZECH_ICO",
		DetailedDescription: "Eight digit company identifier.",
		PositiveKeywords:    []string{"IČO"},
		ConfidenceFactors:   []ConfidenceFactor{{Name: "context", Weight: 0.15}},
		Examples:            []string{"00027383"},
	})

	var out bytes.Buffer
	assert.True(t, h.WriteCheck(&out, "czech_ico"))
	assert.Contains(t, out.String(), "IČO")
	assert.Contains(t, out.String(), "+0.15")
	assert.Contains(t, out.String(), "00027383")

	assert.False(t, h.WriteCheck(&out, "unknown"))
}
