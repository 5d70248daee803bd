// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ipaddress

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the IP address check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "IPv4 addresses",
		DetailedDescription: `Detects dotted IPv4 addresses. Octets above 255, leading zeros and longer dotted
runs such as version numbers are rejected. The address scope (private, public, loopback,
link_local) is recorded in the metadata.`,
		Patterns: []string{"a.b.c.d (e.g., 192.168.1.10)"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid address", Description: "Base confidence", Weight: baseConfidence},
			{Name: "Context keyword", Description: "Keyword within 30 characters before or 10 after", Weight: v.scorer.Boost()},
		},
		PositiveKeywords: v.scorer.Keywords(),
		Examples:         []string{"IP adresa 192.168.1.10"},
	}
}
