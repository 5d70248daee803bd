// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/redactors"
)

func TestFormatter_Report(t *testing.T) {
	report := &redactors.EntityReport{
		Language:       "cs",
		AnonymizedText: "mail <EMAIL_ADDRESS_1a2b3c4d>",
		Records: []redactors.ReplacementRecord{{
			EntityType: "EMAIL_ADDRESS", Start: 5, End: 11, AnonymizedStart: 5, AnonymizedEnd: 29,
			Replacement: "<EMAIL_ADDRESS_1a2b3c4d>", Operator: redactors.OperatorHash, Confidence: 1,
			Detector: "email", Span: detector.Finding{Text: "a@b.cz"},
		}},
	}
	report.Summarize()

	out, err := NewFormatter().Format(formatters.Result{Report: report}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.NotContains(t, out, "a@b.cz")

	var decoded struct {
		Language string `yaml:"language"`
		Records  []struct {
			Operator string `yaml:"operator"`
			End      int    `yaml:"end"`
		} `yaml:"records"`
		Statistics struct {
			EntitiesByType map[string]int `yaml:"entities_by_type"`
		} `yaml:"statistics"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "cs", decoded.Language)
	require.Len(t, decoded.Records, 1)
	assert.Equal(t, "hash", decoded.Records[0].Operator)
	assert.Equal(t, 11, decoded.Records[0].End)
	assert.Equal(t, map[string]int{"EMAIL_ADDRESS": 1}, decoded.Statistics.EntitiesByType)
}

func TestFormatter_Detection(t *testing.T) {
	d := &core.Detection{
		Language: "en",
		Spans:    []detector.Finding{{EntityType: "US_SSN", Start: 4, End: 15, Confidence: 0.85, Detector: "ssn", Text: "123-45-6789"}},
	}

	out, err := NewFormatter().Format(formatters.Result{Detection: d}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "entity_type: US_SSN")
	assert.NotContains(t, out, "123-45-6789")
}
