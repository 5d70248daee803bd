// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resolver merges overlapping candidate findings into one disjoint
// span list using greedy highest-confidence-first interval scheduling.
package resolver

import (
	"sort"

	"meddoc-anonymizer/internal/detector"
)

// Resolve returns the accepted spans, disjoint and sorted by start offset.
//
// Candidates are ranked by confidence (descending), then start (ascending),
// then length (descending). Remaining ties keep input order, which for
// registry output is detector registration order. A candidate is accepted
// when it overlaps no span accepted before it.
func Resolve(candidates []detector.Finding) []detector.Finding {
	if len(candidates) == 0 {
		return []detector.Finding{}
	}

	ranked := make([]detector.Finding, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return outranks(ranked[i], ranked[j])
	})

	// accepted stays ordered by start so overlap checks are a binary search.
	accepted := make([]detector.Finding, 0, len(ranked))
	for _, c := range ranked {
		if c.Start >= c.End {
			continue
		}
		i := sort.Search(len(accepted), func(k int) bool {
			return accepted[k].Start >= c.Start
		})
		if i > 0 && accepted[i-1].End > c.Start {
			continue
		}
		if i < len(accepted) && accepted[i].Start < c.End {
			continue
		}
		accepted = append(accepted, detector.Finding{})
		copy(accepted[i+1:], accepted[i:])
		accepted[i] = c
	}
	return accepted
}

// outranks reports whether a should be considered before b.
func outranks(a, b detector.Finding) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.Len() > b.Len()
}

// Validate checks that spans are non-empty, inside [0,textLen] and pairwise
// disjoint. The spans need not be sorted.
func Validate(spans []detector.Finding, textLen int) error {
	ordered := make([]detector.Finding, len(spans))
	copy(ordered, spans)
	SortByStart(ordered)

	for i, s := range ordered {
		if s.Start < 0 || s.End > textLen {
			return detector.Internalf("span %s [%d,%d) outside text of length %d", s.EntityType, s.Start, s.End, textLen)
		}
		if s.Start >= s.End {
			return detector.Internalf("empty span %s [%d,%d)", s.EntityType, s.Start, s.End)
		}
		if i > 0 && ordered[i-1].End > s.Start {
			return detector.Internalf("spans [%d,%d) and [%d,%d) overlap",
				ordered[i-1].Start, ordered[i-1].End, s.Start, s.End)
		}
	}
	return nil
}

// SortByStart orders findings by start offset, longer spans first on ties.
func SortByStart(findings []detector.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Start != findings[j].Start {
			return findings[i].Start < findings[j].Start
		}
		return findings[i].End > findings[j].End
	})
}
