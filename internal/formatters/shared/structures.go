// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/redactors"
)

// BatchResponse is the JSON/YAML shape of a batch run
type BatchResponse struct {
	Documents []BatchDocument `json:"documents" yaml:"documents"`
	Summary   BatchSummary    `json:"summary" yaml:"summary"`
}

// BatchDocument is one document of a batch. Error replaces Report on failure.
type BatchDocument struct {
	DocumentID string                  `json:"document_id" yaml:"document_id"`
	Report     *redactors.EntityReport `json:"report,omitempty" yaml:"report,omitempty"`
	Error      string                  `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchSummary totals a batch
type BatchSummary struct {
	Documents     int            `json:"documents" yaml:"documents"`
	Failed        int            `json:"failed" yaml:"failed"`
	TotalEntities int            `json:"total_entities" yaml:"total_entities"`
	ByType        map[string]int `json:"entities_by_type" yaml:"entities_by_type"`
}

// GetConfidenceLevel returns the confidence level as a string
func GetConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "HIGH"
	case confidence >= 0.6:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// SanitizeDetection returns a copy of d without matched text and metadata
// unless options.ShowMatch is set. Metadata carries parsed values such as
// account numbers and birth dates.
func SanitizeDetection(d *core.Detection, options formatters.FormatterOptions) *core.Detection {
	if d == nil || options.ShowMatch {
		return d
	}
	out := *d
	out.Spans = make([]detector.Finding, len(d.Spans))
	for i, s := range d.Spans {
		s.Text = ""
		s.Metadata = nil
		out.Spans[i] = s
	}
	return &out
}

// SummarizeBatch converts batch results to their serializable form
func SummarizeBatch(results []core.BatchResult) BatchResponse {
	resp := BatchResponse{
		Documents: make([]BatchDocument, 0, len(results)),
		Summary:   BatchSummary{Documents: len(results), ByType: map[string]int{}},
	}
	for _, r := range results {
		doc := BatchDocument{DocumentID: r.DocumentID, Report: r.Report}
		if r.Error != nil {
			doc.Report = nil
			doc.Error = r.Error.Error()
			resp.Summary.Failed++
		} else if r.Report != nil {
			resp.Summary.TotalEntities += r.Report.Statistics.TotalEntities
			for t, n := range r.Report.Statistics.EntitiesByType {
				resp.Summary.ByType[t] += n
			}
		}
		resp.Documents = append(resp.Documents, doc)
	}
	return resp
}

// ConvertResult returns the value the structured formatters serialize.
// JSON and YAML share it so both formats carry the same fields.
func ConvertResult(result formatters.Result, options formatters.FormatterOptions) interface{} {
	switch {
	case result.Report != nil:
		return result.Report
	case result.Detection != nil:
		return SanitizeDetection(result.Detection, options)
	default:
		return SummarizeBatch(result.Batch)
	}
}
