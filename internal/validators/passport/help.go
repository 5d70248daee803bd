// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package passport

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the passport check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech passport numbers",
		DetailedDescription: `Detects Czech passport numbers. The letter-prefixed format is distinctive and
scores high on its own. The nine digit format is shared with identity cards and phone
numbers, so it starts low and relies on passport keywords nearby to win conflicts.`,
		Patterns: []string{
			"Letter + 8 digits (e.g., P12345678)",
			"9 digits (e.g., 123456789)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Letter prefix", Description: "Base confidence", Weight: v.patterns[0].Confidence},
			{Name: "Numeric", Description: "Base confidence", Weight: v.patterns[1].Confidence},
			{Name: "Context keyword", Description: "Keyword within 50 characters before or 20 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"cestovní pas č. P12345678"},
	}
}
