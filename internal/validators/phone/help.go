// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the phone number check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Czech phone numbers",
		DetailedDescription: `Detects nine digit Czech phone numbers written as one block or in groups of
three, optionally preceded by the +420 country code. Digit runs that are part of a longer
number or of a bank account (followed by a slash) are ignored.`,
		Patterns: []string{
			"+420 XXX XXX XXX (e.g., +420 603 123 456)",
			"XXX XXX XXX (e.g., 603 123 456)",
			"XXXXXXXXX (e.g., 603123456)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Country code", Description: "Base confidence with +420", Weight: internationalConfidence},
			{Name: "Local", Description: "Base confidence without country code", Weight: localConfidence},
			{Name: "Context keyword", Description: "Keyword within 30 characters before or 10 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"tel.: +420 603 123 456"},
	}
}
