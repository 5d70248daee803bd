// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package diagnosis

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the diagnosis code check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "ICD-10 (MKN-10) diagnosis codes",
		DetailedDescription: `Detects diagnosis codes: a chapter letter (U excluded), two digits and an
optional dotted subcategory. Dotted codes are reported on their own; bare three character
codes need a diagnosis keyword nearby.`,
		Patterns: []string{"Letter + 2 digits + .subcategory (e.g., J45.0)", "Letter + 2 digits (e.g., I10)"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Dotted code", Description: "Base confidence", Weight: v.patterns[0].Confidence},
			{Name: "Bare code", Description: "Base confidence, kept above 0.5 only", Weight: v.patterns[1].Confidence},
			{Name: "Context keyword", Description: "Keyword within 40 characters before or 10 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"Dg.: J45.0", "diagnóza I10"},
	}
}
