// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package bankaccount

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the bank account check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech bank account numbers",
		DetailedDescription: `Detects domestic account numbers in the [prefix-]number/bank code form. Numbers
passing the weighted modulo 11 check gain confidence; older accounts that fail it are still
reported at the base confidence.`,
		Patterns: []string{
			"number/bank (e.g., 2000145399/0800)",
			"prefix-number/bank (e.g., 19-2000145399/0800)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Pattern", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Modulo 11", Description: "Prefix and number pass the weighted check", Weight: checksumBonus},
			{Name: "Context keyword", Description: "Keyword within 50 characters before or 20 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"číslo účtu: 19-2000145399/0800"},
	}
}
