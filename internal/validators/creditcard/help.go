// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the credit card check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Payment card numbers (Luhn validated)",
		DetailedDescription: `Detects 13 to 19 digit card numbers, optionally grouped by spaces or dashes. Every
candidate must pass the Luhn check. The vendor is derived from the first six digits.`,
		Patterns: []string{
			"XXXX XXXX XXXX XXXX (e.g., 4111 1111 1111 1111)",
			"XXXX-XXXXXX-XXXXX (e.g., 3782-822463-10005)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Luhn", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Keyword within 50 characters before or 20 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"platební karta 4111 1111 1111 1111"},
	}
}
