// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"strconv"
	"strings"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/resolver"
)

// EntityType is the entity emitted by this detector.
const EntityType = "PERSON"

// DefaultConfidence is reported for every model span regardless of the model's own score.
const DefaultConfidence = 0.85

// Validator implements the detector.Detector interface for person names. It
// does not scan the text itself: it turns the named entity model's spans
// labelled as persons into findings.
type Validator struct {
	detector.Base
	labels     map[string]bool
	confidence float64
}

// NewValidator creates a person name detector accepting PER and PERSON labels.
func NewValidator() *Validator {
	return &Validator{
		Base:       detector.NewBase("personname", "", EntityType),
		labels:     map[string]bool{"PER": true, "PERSON": true},
		confidence: DefaultConfidence,
	}
}

// SetConfidence overrides the confidence reported for model spans.
func (v *Validator) SetConfidence(confidence float64) {
	v.confidence = detector.ClampConfidence(confidence)
}

// Detect implements detector.Detector.
func (v *Validator) Detect(text *detector.Text, requested detector.TypeSet, modelSpans []detector.ModelSpan) ([]detector.Finding, error) {
	if !v.Wants(requested) || len(modelSpans) == 0 {
		return nil, nil
	}

	var findings []detector.Finding
	for _, span := range modelSpans {
		if !v.labels[strings.ToUpper(span.Label)] {
			continue
		}
		if !text.ValidSpan(span.Start, span.End) {
			continue
		}
		// Model spans often include trailing punctuation or whitespace.
		start, end := trim(text, span.Start, span.End)
		if start >= end {
			continue
		}

		f := v.Finding(text, EntityType, start, end, v.confidence, "Detected by NER model as "+span.Label)
		if span.Score != nil {
			f.Metadata["model_score"] = strconv.FormatFloat(*span.Score, 'f', 4, 64)
		}
		findings = append(findings, f)
	}
	return resolver.Resolve(findings), nil
}

func trim(text *detector.Text, start, end int) (int, int) {
	for start < end && isSpaceOrPunct(text.RuneAt(start)) {
		start++
	}
	for end > start && isSpaceOrPunct(text.RuneAt(end-1)) {
		end--
	}
	return start, end
}

func isSpaceOrPunct(r rune) bool {
	return strings.ContainsRune(" \t\r\n,;:.!?\"'()", r)
}
