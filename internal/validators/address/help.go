// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the address check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech postal addresses",
		DetailedDescription: `Detects a capitalised street name with a house number (descriptive/orientation
numbers such as 1234/56 included) followed within 100 characters by a ZIP code and
optionally a city. A street without a ZIP code, or a ZIP code and city without a street,
is only reported when address keywords surround it.`,
		Patterns: []string{
			"Street number, ZIP City (e.g., Vinohradská 1234/56, 120 00 Praha 2)",
			"Street number (e.g., ul. Dlouhá 5)",
			"ZIP City (e.g., 602 00 Brno)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Street and ZIP", Description: "Base confidence", Weight: fullConfidence},
			{Name: "City", Description: "City name after the ZIP code", Weight: cityBonus},
			{Name: "Partial address", Description: "Base confidence, kept above 0.5 only", Weight: partialConfidence},
			{Name: "Context keyword", Description: "Keyword within 50 characters on either side", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"trvalé bydliště: Vinohradská 1234/56, 120 00 Praha 2"},
	}
}
