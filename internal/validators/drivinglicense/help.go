// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package drivinglicense

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the driving licence check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech driving licence numbers (ŘP)",
		DetailedDescription: `Detects driving licence numbers. Eight digits alone are too common to report,
so a candidate is kept only when a licence keyword lifts it above 0.6.`,
		Patterns: []string{"8 digits (e.g., 12345678)", "2 letters + 6 digits (e.g., EA 123456)"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Numeric", Description: "Base confidence", Weight: v.patterns[0].Confidence},
			{Name: "Series", Description: "Base confidence", Weight: v.patterns[1].Confidence},
			{Name: "Context keyword", Description: "Required to pass the 0.6 threshold", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"řidičský průkaz č. EA 123456"},
	}
}
