// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import "meddoc-anonymizer/internal/help"

// GetCheckInfo returns standardized information about the person name check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             EntityType,
		Language:         v.Language(),
		ShortDescription: "Person names from the named entity model",
		DetailedDescription: `Person names are not matched by patterns. The named entity recognition service
returns labelled spans for the whole text; spans labelled PER or PERSON become findings with
a fixed confidence. The model's own score is kept in the metadata as model_score.

When the model service is unavailable no person names are reported and the response carries
a model_unavailable warning.`,
		Patterns: []string{"Model spans labelled PER or PERSON"},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Model span", Description: "Fixed confidence", Weight: v.confidence},
		},
		Examples: []string{"Jan Novák", "MUDr. Petra Svobodová"},
	}
}
