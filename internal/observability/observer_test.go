// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardObserver_StartTiming(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)

	finish := obs.StartTiming("registry", "run", "cs")
	finish(true, map[string]interface{}{"findings": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registry", entry["component"])
	assert.Equal(t, "run", entry["operation"])
	assert.Equal(t, "cs", entry["target"])
	assert.Equal(t, true, entry["success"])
	assert.EqualValues(t, 3, entry["findings"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestStandardObserver_Off(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityOff, &buf)

	obs.StartTiming("registry", "run", "")(true, nil)
	obs.Warn("registry", "ignored", nil)
	assert.Zero(t, buf.Len())
}

func TestStandardObserver_NilSafe(t *testing.T) {
	var obs *StandardObserver
	assert.NotPanics(t, func() {
		obs.StartTiming("x", "y", "z")(false, nil)
		obs.Warn("x", "y", nil)
		obs.Debug("x", "y", nil)
		obs.Logger().Info().Msg("discarded")
	})
	assert.Equal(t, ObservabilityOff, obs.Level())

	var nilObs *StandardObserver
	assert.Nil(t, nilObs.Steps())
	assert.Nil(t, NewStandardObserver(ObservabilityMetrics, io.Discard).Steps())

	var dbg *DebugObserver
	assert.NotPanics(t, func() {
		dbg.StartStep("x", "y", "z")(true, "")
		dbg.LogDetail("x", "y")
	})
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityDebug, &buf)
	require.NotNil(t, obs.DebugObserver)

	done := obs.DebugObserver.StartStep("engine", "resolve", "doc-1")
	obs.DebugObserver.LogMetric("engine", "candidates", 7)
	done(true, "2 accepted")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "step started")
	assert.Contains(t, lines[1], `"candidates":7`)
	assert.Contains(t, lines[2], "2 accepted")
}

func TestNewRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}
