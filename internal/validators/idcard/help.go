// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package idcard

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the identity card check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	info := help.CheckInfo{
		Name:                EntityType,
		Language:            v.Language(),
		ShortDescription:    "Czech identity card numbers (OP)",
		DetailedDescription: "Detects nine digit identity card numbers and the older two-letter series format.",
		PositiveKeywords:    v.scorer.Keywords(),
		Examples:            []string{"OP č. 123456789", "číslo OP: AB1234567"},
	}
	for _, p := range v.patterns {
		info.Patterns = append(info.Patterns, p.Regex.String())
		info.ConfidenceFactors = append(info.ConfidenceFactors, help.ConfidenceFactor{
			Name: p.Name, Description: "Base confidence", Weight: p.Confidence,
		})
	}
	info.ConfidenceFactors = append(info.ConfidenceFactors, help.ConfidenceFactor{
		Name: "Context keyword", Description: "Keyword within 50 characters before or 20 after", Weight: v.scorer.Boost(),
	})
	return info
}
