// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package model connects the pipeline to an external entity-extraction
// model. The model is a collaborator: it reports labelled spans and the
// person-name detector turns them into findings.
package model

import (
	"context"
	"strings"

	"meddoc-anonymizer/internal/detector"
)

// Extractor returns entity spans for a text. Offsets are code points.
type Extractor interface {
	ExtractEntities(ctx context.Context, text, language string) ([]detector.ModelSpan, error)
}

// Static is an in-memory Extractor. It reports every occurrence of its
// configured phrases, which makes it useful for tests and for fixed
// dictionaries of names.
type Static struct {
	entries []staticEntry
	err     error
}

type staticEntry struct {
	phrase string
	label  string
	score  *float64
}

// NewStatic creates an empty static extractor.
func NewStatic() *Static {
	return &Static{}
}

// Add registers a phrase reported with label. Matching is case-sensitive.
func (s *Static) Add(phrase, label string) *Static {
	if phrase != "" {
		s.entries = append(s.entries, staticEntry{phrase: phrase, label: label})
	}
	return s
}

// AddScored registers a phrase with an explicit model score.
func (s *Static) AddScored(phrase, label string, score float64) *Static {
	if phrase != "" {
		s.entries = append(s.entries, staticEntry{phrase: phrase, label: label, score: &score})
	}
	return s
}

// FailWith makes every call return err wrapped in ErrModelUnavailable.
func (s *Static) FailWith(err error) *Static {
	s.err = err
	return s
}

// ExtractEntities implements Extractor.
func (s *Static) ExtractEntities(ctx context.Context, text, language string) ([]detector.ModelSpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, wrapUnavailable(s.err)
	}

	indexed := detector.NewText(text)
	var spans []detector.ModelSpan
	for _, e := range s.entries {
		from := 0
		for {
			i := strings.Index(text[from:], e.phrase)
			if i < 0 {
				break
			}
			byteStart := from + i
			byteEnd := byteStart + len(e.phrase)
			start, okStart := indexed.RuneOffset(byteStart)
			end, okEnd := indexed.RuneOffset(byteEnd)
			if okStart && okEnd {
				spans = append(spans, detector.ModelSpan{Label: e.label, Start: start, End: end, Score: e.score})
			}
			from = byteEnd
		}
	}
	return spans, nil
}
