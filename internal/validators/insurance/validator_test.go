// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package insurance

import (
	"testing"

	"meddoc-anonymizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Detect(t *testing.T) {
	v := NewValidator()

	t.Run("requires context", func(t *testing.T) {
		findings, err := v.Detect(detector.NewText("id 760506/1234"), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, findings)
	})

	t.Run("with context", func(t *testing.T) {
		findings, err := v.Detect(detector.NewText("Číslo pojištěnce: 760506/1234"), nil, nil)
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, EntityType, findings[0].EntityType)
		assert.InDelta(t, 0.9, findings[0].Confidence, 1e-9)
		assert.Equal(t, "760506/1234", findings[0].Text)
	})

	t.Run("structurally invalid", func(t *testing.T) {
		findings, err := v.Detect(detector.NewText("pojišťovna VZP 761399/1234"), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, findings)
	})
}
