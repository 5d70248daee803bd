// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package insurance

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the insurance number check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech health insurance numbers",
		DetailedDescription: `Czech health insurers identify the insured person by their birth number. This
check reports a birth-number shaped value only when an insurance keyword appears within 60
characters before or 20 after it. Without such context the value is left to the birth
number check.`,
		Patterns: []string{"YYMMDD/XXXX next to an insurance keyword"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Pattern", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Required for a finding", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"číslo pojištěnce: 760506/1234, VZP"},
	}
}
