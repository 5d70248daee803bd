// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/redactors"
)

func sampleReport() *redactors.EntityReport {
	report := &redactors.EntityReport{
		Language:       "cs",
		AnonymizedText: "Jan [CZECH_BIRTH_NUMBER]",
		Records: []redactors.ReplacementRecord{{
			EntityType:      "CZECH_BIRTH_NUMBER",
			Start:           4,
			End:             15,
			AnonymizedStart: 4,
			AnonymizedEnd:   24,
			Replacement:     "[CZECH_BIRTH_NUMBER]",
			Operator:        redactors.OperatorReplace,
			Confidence:      0.85,
			Detector:        "birthnumber",
			Explanation:     "valid birth number",
			Span:            detector.Finding{Text: "760506/1234"},
		}},
		Warnings:   []redactors.Warning{{Code: redactors.WarningModelUnavailable, Message: "model down"}},
		Statistics: redactors.Statistics{ProcessingTimeMS: 3},
	}
	report.Summarize()
	return report
}

func TestFormatter_Report(t *testing.T) {
	out, err := NewFormatter().Format(formatters.Result{Report: sampleReport()}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)

	assert.Contains(t, out, "ANONYMIZED TEXT\nJan [CZECH_BIRTH_NUMBER]\n")
	assert.Contains(t, out, "MEDIUM")
	assert.Contains(t, out, "4-15")
	assert.Contains(t, out, "4-24")
	assert.Contains(t, out, "! model_unavailable: model down")
	assert.Contains(t, out, "1 entity (CZECH_BIRTH_NUMBER 1) in 3 ms")
	assert.NotContains(t, out, "760506/1234", "original text is hidden by default")
	assert.NotContains(t, out, "\x1b[", "no escape codes with colors disabled")
}

func TestFormatter_ReportOptions(t *testing.T) {
	tests := []struct {
		name    string
		options formatters.FormatterOptions
		want    []string
	}{
		{
			name:    "show match",
			options: formatters.FormatterOptions{NoColor: true, ShowMatch: true},
			want:    []string{"MATCH", "760506/1234"},
		},
		{
			name:    "verbose",
			options: formatters.FormatterOptions{NoColor: true, Verbose: true},
			want:    []string{"detector: birthnumber", "valid birth number"},
		},
		{
			name:    "diff",
			options: formatters.FormatterOptions{NoColor: true, ShowDiff: true},
			want:    []string{"DIFF\n", "Jan [-760506/1234-]{+[CZECH_BIRTH_NUMBER]+}\n", "(20 characters changed)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatters.Result{Report: sampleReport(), Original: "Jan 760506/1234"}
			out, err := NewFormatter().Format(result, tt.options)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRenderDiff(t *testing.T) {
	p := newPalette(true)
	original := "Jan Novák, id 760506/1234, email a@b.cz"
	report := &redactors.EntityReport{
		AnonymizedText: "[PERSON], id [CZECH_BIRTH_NUMBER], email a@b.cz",
		Records: []redactors.ReplacementRecord{
			{Start: 0, End: 9, Replacement: "[PERSON]"},
			{Start: 14, End: 25, Replacement: "[CZECH_BIRTH_NUMBER]"},
			{Start: 33, End: 39, Replacement: "a@b.cz"},
		},
	}

	tests := []struct {
		name   string
		report *redactors.EntityReport
		want   string
	}{
		{
			name:   "records keep short unchanged runs",
			report: report,
			want:   "[-Jan Novák-]{+[PERSON]+}, id [-760506/1234-]{+[CZECH_BIRTH_NUMBER]+}, email a@b.cz",
		},
		{
			name:   "no records",
			report: &redactors.EntityReport{AnonymizedText: original},
			want:   original,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderDiff(original, tt.report, p)
			assert.True(t, strings.HasPrefix(out, tt.want+"\n("), out)
		})
	}

	t.Run("out of order records fall back to a text diff", func(t *testing.T) {
		bad := &redactors.EntityReport{
			AnonymizedText: "Jan X",
			Records:        []redactors.ReplacementRecord{{Start: 40, End: 50}},
		}
		out := renderDiff("Jan Y", bad, p)
		assert.Contains(t, out, "Jan ")
		assert.Contains(t, out, "[-Y-]")
		assert.Contains(t, out, "{+X+}")
	})
}

func TestFormatter_EmptyReport(t *testing.T) {
	report := &redactors.EntityReport{AnonymizedText: "nic"}
	report.Summarize()

	out, err := NewFormatter().Format(formatters.Result{Report: report}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "nic\n")
	assert.Contains(t, out, "No entities found.")
}

func TestFormatter_Detection(t *testing.T) {
	d := &core.Detection{
		Language: "cs",
		Spans: []detector.Finding{
			{EntityType: "EMAIL_ADDRESS", Start: 6, End: 14, Confidence: 1, Detector: "email", Text: "a@b.cz", Metadata: map[string]string{"domain": "b.cz"}},
			{EntityType: "PERSON", Start: 20, End: 29, Confidence: 0.5, Detector: "personname", Text: "Jan Novák"},
		},
	}

	out, err := NewFormatter().Format(formatters.Result{Detection: d}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "LOW")
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "Jan Novák")
	assert.Contains(t, out, "2 entities (EMAIL_ADDRESS 1, PERSON 1) (language cs)")

	out, err = NewFormatter().Format(formatters.Result{Detection: d}, formatters.FormatterOptions{NoColor: true, ShowMatch: true, Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, out, "Jan Novák")
	assert.Contains(t, out, "domain: b.cz")
}

func TestFormatter_Batch(t *testing.T) {
	results := []core.BatchResult{
		{DocumentID: "doc-0", Report: sampleReport()},
		{DocumentID: "doc-1", Error: errors.New("invalid input: text is empty")},
	}

	out, err := NewFormatter().Format(formatters.Result{Batch: results}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "=== doc-0 ===")
	assert.Contains(t, out, "=== doc-1 ===\nerror: invalid input: text is empty")
	assert.Contains(t, out, "2 documents, 1 failed, 1 entity (CZECH_BIRTH_NUMBER 1)")
}

func TestCell(t *testing.T) {
	assert.Equal(t, "a b", cell("a\nb"))
	long := "ŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘŘ"
	assert.Equal(t, maxColumnWidth, runeLen(cell(long)))
}
