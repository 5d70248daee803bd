// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package iban

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the IBAN check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "International bank account numbers (IBAN)",
		DetailedDescription: `Detects IBANs written compactly or in groups of four. The country code fixes the
expected length and every candidate must pass the ISO 7064 mod 97-10 check.`,
		Patterns: []string{"CZkk BBBB PPPP PPNN NNNN NNNN (e.g., CZ65 0800 0000 1920 0014 5399)"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Mod 97", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Keyword within 40 characters before or 10 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"IBAN: CZ65 0800 0000 1920 0014 5399"},
	}
}
