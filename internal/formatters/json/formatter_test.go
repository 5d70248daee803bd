// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/redactors"
	"meddoc-anonymizer/internal/redactors/position"
)

func TestFormatter_Report(t *testing.T) {
	table := position.NewTable()
	table.Append(4, 4, false)
	table.Append(11, 20, true)

	report := &redactors.EntityReport{
		RequestID:      "req-1",
		Language:       "cs",
		AnonymizedText: "Jan [CZECH_BIRTH_NUMBER]",
		Records: []redactors.ReplacementRecord{{
			EntityType: "CZECH_BIRTH_NUMBER", Start: 4, End: 15, AnonymizedStart: 4, AnonymizedEnd: 24,
			Replacement: "[CZECH_BIRTH_NUMBER]", Operator: redactors.OperatorReplace, Confidence: 0.85,
			Detector: "birthnumber", Span: detector.Finding{Text: "760506/1234"},
		}},
		Positions: table,
	}
	report.Summarize()

	out, err := NewFormatter().Format(formatters.Result{Report: report}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.NotContains(t, out, "760506/1234")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Jan [CZECH_BIRTH_NUMBER]", decoded["anonymized_text"])

	records := decoded["records"].([]interface{})
	require.Len(t, records, 1)
	rec := records[0].(map[string]interface{})
	assert.Equal(t, "replace", rec["operator"])
	assert.EqualValues(t, 24, rec["anonymized_end"])

	stats := decoded["statistics"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_entities"])

	segments := decoded["positions"].(map[string]interface{})["segments"].([]interface{})
	assert.Len(t, segments, 2)
}

func TestFormatter_DetectionHidesMatches(t *testing.T) {
	d := &core.Detection{
		RequestID: "req-2",
		Language:  "cs",
		Spans: []detector.Finding{{
			EntityType: "CZECH_BANK_ACCOUNT_NUMBER", Start: 0, End: 14, Confidence: 0.9, Detector: "bankaccount",
			Text: "19-2000145399/0800", Metadata: map[string]string{"account_number": "2000145399"},
		}},
	}

	tests := []struct {
		name      string
		showMatch bool
		wantText  bool
	}{
		{name: "hidden", showMatch: false, wantText: false},
		{name: "shown", showMatch: true, wantText: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewFormatter().Format(formatters.Result{Detection: d}, formatters.FormatterOptions{ShowMatch: tt.showMatch, Compact: true})
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, strings.Contains(out, "19-2000145399/0800") && strings.Contains(out, "2000145399"))
			assert.Contains(t, out, `"entity_type":"CZECH_BANK_ACCOUNT_NUMBER"`)
		})
	}

	assert.Equal(t, "19-2000145399/0800", d.Spans[0].Text, "input detection is not modified")
}

func TestFormatter_Batch(t *testing.T) {
	report := &redactors.EntityReport{AnonymizedText: "[EMAIL_ADDRESS]", Records: []redactors.ReplacementRecord{{EntityType: "EMAIL_ADDRESS"}}}
	report.Summarize()

	results := []core.BatchResult{
		{DocumentID: "a", Report: report},
		{DocumentID: "b", Error: errors.New("boom")},
	}

	out, err := NewFormatter().Format(formatters.Result{Batch: results}, formatters.FormatterOptions{})
	require.NoError(t, err)

	var decoded struct {
		Documents []struct {
			DocumentID string `json:"document_id"`
			Error      string `json:"error"`
		} `json:"documents"`
		Summary struct {
			Documents     int            `json:"documents"`
			Failed        int            `json:"failed"`
			TotalEntities int            `json:"total_entities"`
			ByType        map[string]int `json:"entities_by_type"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Documents, 2)
	assert.Equal(t, "boom", decoded.Documents[1].Error)
	assert.Equal(t, 2, decoded.Summary.Documents)
	assert.Equal(t, 1, decoded.Summary.Failed)
	assert.Equal(t, map[string]int{"EMAIL_ADDRESS": 1}, decoded.Summary.ByType)
}

func TestExport_Registry(t *testing.T) {
	_, ok := formatters.Get("json")
	assert.True(t, ok)

	_, err := formatters.Export("xml", formatters.Result{Detection: &core.Detection{}}, formatters.FormatterOptions{})
	assert.ErrorContains(t, err, "unsupported format 'xml'")

	_, err = formatters.Export("json", formatters.Result{}, formatters.FormatterOptions{})
	assert.Error(t, err)

	info := formatters.GetFormatInfo("json")
	assert.Equal(t, "application/json", info.MimeType)
	assert.Equal(t, ".json", info.Extension)
}
