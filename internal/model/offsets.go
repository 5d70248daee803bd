// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import "meddoc-anonymizer/internal/detector"

// Offset units a model service may report.
const (
	OffsetUnitByte = "byte"
	OffsetUnitChar = "char"
)

// NormalizeByteOffsets converts spans reported in UTF-8 byte offsets to code
// point offsets. Spans that are empty, out of range or split a multi-byte
// sequence are dropped; dropped is their count.
func NormalizeByteOffsets(text *detector.Text, spans []detector.ModelSpan) (normalized []detector.ModelSpan, dropped int) {
	normalized = make([]detector.ModelSpan, 0, len(spans))
	for _, s := range spans {
		start, okStart := text.RuneOffset(s.Start)
		end, okEnd := text.RuneOffset(s.End)
		if !okStart || !okEnd || !text.ValidSpan(start, end) {
			dropped++
			continue
		}
		s.Start, s.End = start, end
		normalized = append(normalized, s)
	}
	return normalized, dropped
}

// normalizeSpans brings spans to code points according to unit. Code point
// spans are only bounds-checked.
func normalizeSpans(text *detector.Text, spans []detector.ModelSpan, unit string) ([]detector.ModelSpan, int) {
	if unit == OffsetUnitByte {
		return NormalizeByteOffsets(text, spans)
	}

	kept := make([]detector.ModelSpan, 0, len(spans))
	dropped := 0
	for _, s := range spans {
		if !text.ValidSpan(s.Start, s.End) {
			dropped++
			continue
		}
		kept = append(kept, s)
	}
	return kept, dropped
}
