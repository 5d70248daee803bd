// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ico

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the IČO check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech company identification numbers (IČO)",
		DetailedDescription: `Detects eight digit Czech company identifiers. Every candidate must pass the
IČO check digit: the first seven digits are weighted 8 down to 2, and the last digit
equals (11 - sum mod 11) mod 10. Numbers failing the check are silently ignored.`,
		Patterns: []string{"8 digits (e.g., 00027383)"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid check digit", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Keyword within 30 characters before or 10 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"IČO: 00027383"},
	}
}
