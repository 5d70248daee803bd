// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the SSN check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "US Social Security Numbers",
		DetailedDescription: `Detects dashed Social Security Numbers in English text. Numbers that were never
issued (area 000, 666 or 900-999, group 00, serial 0000) are ignored.`,
		Patterns: []string{"XXX-XX-XXXX (e.g., 123-45-6789)"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Pattern", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Keyword within 50 characters before or 20 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"SSN: 123-45-6789"},
	}
}
