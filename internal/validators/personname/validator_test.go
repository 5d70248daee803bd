// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"testing"

	"meddoc-anonymizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(f float64) *float64 { return &f }

func TestValidator_Detect(t *testing.T) {
	text := detector.NewText("Jan Novák, id 760506/1234, ošetřující MUDr. Petra Svobodová.")
	spans := []detector.ModelSpan{
		{Label: "PER", Start: 0, End: 10, Score: score(0.97)},
		{Label: "LOC", Start: 14, End: 20},
		{Label: "person", Start: 44, End: 60},
		{Label: "PERSON", Start: 50, End: 200},
	}

	findings, err := NewValidator().Detect(text, nil, spans)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, "Jan Novák", findings[0].Text)
	assert.Equal(t, 9, findings[0].End)
	assert.InDelta(t, DefaultConfidence, findings[0].Confidence, 1e-9)
	assert.Equal(t, "Detected by NER model as PER", findings[0].Explanation)
	assert.Equal(t, "0.9700", findings[0].Metadata["model_score"])

	assert.Equal(t, "Petra Svobodová", findings[1].Text)
	assert.NotContains(t, findings[1].Metadata, "model_score")
}

func TestValidator_DetectWithoutModelSpans(t *testing.T) {
	findings, err := NewValidator().Detect(detector.NewText("Jan Novák"), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
}
