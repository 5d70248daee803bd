// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package birthnumber

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the birth number check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech birth numbers (rodné číslo)",
		DetailedDescription: `Detects birth numbers in the YYMMDD/XXXX form, with or without the slash.

The date part must be a real calendar date. Months are shifted by 50 for women, and by 20
(or 70) for numbers issued from 2004 when the daily series ran out. Nine digit numbers are
only accepted before 1954 and with a slash. A ten digit number divisible by 11 gains extra
confidence; failing the check does not reject the candidate.`,
		Patterns: []string{
			"YYMMDD/XXXX (e.g., 760506/1234)",
			"YYMMDDXXXX (e.g., 7605061234)",
			"YYMMDD/XXX before 1954 (e.g., 510101/123)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Slash form", Description: "Base confidence with slash", Weight: slashConfidence},
			{Name: "Compact form", Description: "Base confidence without slash", Weight: compactConfidence},
			{Name: "Modulo 11", Description: "Ten digit number divisible by 11", Weight: checksumBonus},
			{Name: "Context keyword", Description: "Keyword within 50 characters before or 20 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"r.č. 760506/1234", "narozen 8552153478"},
	}
}
