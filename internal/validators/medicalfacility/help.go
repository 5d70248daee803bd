// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package medicalfacility

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the facility check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Healthcare facility names (best effort)",
		DetailedDescription: `Anchors on facility keywords such as "nemocnice" or "poliklinika" at a word start
and extends the name up to 50 characters to the right over letters, digits and simple
punctuation, stopping at a line break. The boundary is approximate, so findings carry a
fixed, modest confidence.`,
		Patterns:          []string{"<keyword> <name> (e.g., Fakultní nemocnice v Motole)"},
		ConfidenceFactors: []help.ConfidenceFactor{{Name: "Keyword", Description: "Fixed confidence", Weight: confidence}},
		PositiveKeywords:  v.Keywords(),
		Examples:          []string{"hospitalizován ve Fakultní nemocnici v Motole", "Poliklinika Budějovická"},
	}
}
