// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package plaintext rewrites plain text by substituting accepted spans.
package plaintext

import (
	"strings"
	"unicode/utf8"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/observability"
	"meddoc-anonymizer/internal/redactors"
	"meddoc-anonymizer/internal/redactors/position"
	"meddoc-anonymizer/internal/redactors/strategies"
	"meddoc-anonymizer/internal/resolver"
)

// Rewriter substitutes accepted spans in a single left-to-right pass
type Rewriter struct {
	observer *observability.StandardObserver
}

// NewRewriter creates a Rewriter. observer may be nil.
func NewRewriter(observer *observability.StandardObserver) *Rewriter {
	return &Rewriter{observer: observer}
}

// Rewrite replaces every span of text using the operator configured for its
// entity type. spans must be disjoint and inside text; a violation returns
// an error wrapping detector.ErrInternal and no partial output.
//
// Text outside the spans is copied unchanged. The report holds one record
// per span in start order and the offset table of the rewrite.
func (r *Rewriter) Rewrite(text *detector.Text, spans []detector.Finding, ops redactors.OperatorConfig) (*redactors.EntityReport, error) {
	finishTiming := r.observer.StartTiming("plaintext_rewriter", "rewrite", "")

	if err := resolver.Validate(spans, text.Len()); err != nil {
		finishTiming(false, map[string]interface{}{"span_count": len(spans)})
		return nil, err
	}

	ordered := make([]detector.Finding, len(spans))
	copy(ordered, spans)
	resolver.SortByStart(ordered)

	set := strategies.NewSet(ops)
	table := position.NewTable()
	records := make([]redactors.ReplacementRecord, 0, len(ordered))

	var out strings.Builder
	out.Grow(text.ByteLen())
	cursor, anonPos := 0, 0

	for _, span := range ordered {
		unchanged := span.Start - cursor
		out.WriteString(text.Slice(cursor, span.Start))
		table.Append(unchanged, unchanged, false)
		anonPos += unchanged

		// Caller supplied spans may carry stale or no text
		span.Text = text.Slice(span.Start, span.End)
		spec := ops.For(span.EntityType)
		replacement, err := set.Apply(span, spec)
		if err != nil {
			finishTiming(false, map[string]interface{}{"span_count": len(spans)})
			return nil, err
		}
		replLen := utf8.RuneCountInString(replacement)
		out.WriteString(replacement)
		table.Append(span.Len(), replLen, true)

		records = append(records, redactors.ReplacementRecord{
			EntityType:      span.EntityType,
			Start:           span.Start,
			End:             span.End,
			AnonymizedStart: anonPos,
			AnonymizedEnd:   anonPos + replLen,
			Replacement:     replacement,
			Operator:        spec.Operator,
			Confidence:      span.Confidence,
			Detector:        span.Detector,
			Explanation:     span.Explanation,
			Span:            span,
		})
		anonPos += replLen
		cursor = span.End
	}

	tail := text.Len() - cursor
	out.WriteString(text.Slice(cursor, text.Len()))
	table.Append(tail, tail, false)

	report := &redactors.EntityReport{
		AnonymizedText: out.String(),
		Records:        records,
		Positions:      table,
	}
	report.Summarize()

	finishTiming(true, map[string]interface{}{"span_count": len(records)})
	return report, nil
}
