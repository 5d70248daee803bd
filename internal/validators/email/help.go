// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the email check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Email addresses, with provider identification",
		DetailedDescription: `Detects email addresses in any language and records the domain and the provider
in the finding metadata.

SUPPORTED PROVIDER TYPES:
• GMAIL, OUTLOOK, YAHOO, ICLOUD, PROTONMAIL - international providers
• SEZNAM, CENTRUM, ISP - Czech providers (seznam.cz, email.cz, centrum.cz, ...)
• EDUCATIONAL - universities (.edu, muni.cz, cuni.cz, ...)
• GOVERNMENT - public administration (.gov, gov.cz, ...)
• EMAIL - any other domain`,
		Patterns: []string{
			"Standard format (e.g., jan.novak@seznam.cz)",
			"Complex local parts (e.g., jan.novak+lab@nemocnice.cz)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid format", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Keyword within 30 characters before or 10 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"e-mail: jan.novak@seznam.cz"},
	}
}
