// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dic

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the DIČ check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:                EntityType,
		Language:            v.Language(),
		ShortDescription:    "Czech VAT identification numbers (DIČ)",
		DetailedDescription: "Detects the CZ country prefix followed by 8 to 10 digits.",
		Patterns:            []string{"CZ + 8-10 digits (e.g., CZ25596641)"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Pattern", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Keyword within 40 characters before or 20 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"DIČ: CZ25596641"},
	}
}
