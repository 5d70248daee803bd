// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validators

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/observability"
)

// Registry holds the active detectors per language and fans text out to them.
//
// Detectors are registered once at startup and the registry is then sealed.
// After sealing the registry is read-only and Run is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	detectors []detector.Detector
	names     map[string]bool
	lists     map[string][]detector.Detector // per language, agnostic detectors included
	agnostic  []detector.Detector
	sealed    bool
	observer  *observability.StandardObserver
}

// NewRegistry creates an empty registry.
func NewRegistry(observer *observability.StandardObserver) *Registry {
	return &Registry{
		names:    make(map[string]bool),
		observer: observer,
	}
}

// Register appends a detector. Registration order breaks confidence ties
// during conflict resolution.
func (r *Registry) Register(d detector.Detector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("registry is sealed, cannot register %s", d.Name())
	}
	if r.names[d.Name()] {
		return fmt.Errorf("detector %s already registered", d.Name())
	}
	r.names[d.Name()] = true
	r.detectors = append(r.detectors, d)
	return nil
}

// Seal freezes the registry and builds the per-language lists.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return
	}

	r.lists = make(map[string][]detector.Detector)
	for _, d := range r.detectors {
		if d.Language() != "" {
			r.lists[d.Language()] = nil
		}
	}
	for _, d := range r.detectors {
		if d.Language() == "" {
			r.agnostic = append(r.agnostic, d)
		}
		for lang := range r.lists {
			if d.Language() == "" || d.Language() == lang {
				r.lists[lang] = append(r.lists[lang], d)
			}
		}
	}
	r.sealed = true
}

// Sealed reports whether the registry accepts Run calls.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Detectors returns the ordered detectors that run for language. Languages
// without dedicated detectors get the language-agnostic ones.
func (r *Registry) Detectors(language string) []detector.Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.sealed {
		return nil
	}
	if list, ok := r.lists[language]; ok {
		return append([]detector.Detector(nil), list...)
	}
	return append([]detector.Detector(nil), r.agnostic...)
}

// Languages returns the languages that have dedicated detectors.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.lists))
	for lang := range r.lists {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// detectorResult holds one detector's output
type detectorResult struct {
	findings []detector.Finding
	failure  *detector.DetectorFailure
}

// Run dispatches text to every detector for language and returns the union
// of their findings in registration order. A failing detector contributes no
// findings and is reported in the failure list. Run returns ctx.Err() when
// the context ends before every detector has finished; partial results are
// discarded.
func (r *Registry) Run(ctx context.Context, text *detector.Text, language string, requested detector.TypeSet, modelSpans []detector.ModelSpan) ([]detector.Finding, []*detector.DetectorFailure, error) {
	if !r.Sealed() {
		return nil, nil, detector.Internalf("registry used before it was sealed")
	}

	finishTiming := r.observer.StartTiming("registry", "run", language)

	var active []detector.Detector
	for _, d := range r.Detectors(language) {
		if requested.AllowsAny(d.SupportedTypes()) {
			active = append(active, d)
		}
	}

	results := make([]detectorResult, len(active))
	var wg sync.WaitGroup
	for i, d := range active {
		wg.Add(1)
		go func(i int, d detector.Detector) {
			defer wg.Done()
			results[i] = runDetector(d, text, requested, modelSpans)
		}(i, d)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		finishTiming(false, map[string]interface{}{"cancelled": true})
		return nil, nil, ctx.Err()
	}

	var findings []detector.Finding
	var failures []*detector.DetectorFailure
	for i, res := range results {
		if res.failure != nil {
			failures = append(failures, res.failure)
			r.observer.Warn("registry", "detector failed", map[string]interface{}{
				"detector": res.failure.Detector,
				"error":    res.failure.Err.Error(),
			})
			continue
		}
		for _, f := range res.findings {
			if !text.ValidSpan(f.Start, f.End) {
				r.observer.Warn("registry", "dropped malformed span", map[string]interface{}{
					"detector": active[i].Name(),
					"start":    f.Start,
					"end":      f.End,
				})
				continue
			}
			if !requested.Allows(f.EntityType) {
				continue
			}
			if f.Detector == "" {
				f.Detector = active[i].Name()
			}
			if f.Text == "" {
				f.Text = text.Slice(f.Start, f.End)
			}
			findings = append(findings, f)
		}
	}

	finishTiming(true, map[string]interface{}{
		"detectors": len(active),
		"findings":  len(findings),
		"failures":  len(failures),
	})
	return findings, failures, nil
}

// runDetector isolates one detector so an error or panic cannot abort the request.
func runDetector(d detector.Detector, text *detector.Text, requested detector.TypeSet, modelSpans []detector.ModelSpan) (res detectorResult) {
	defer func() {
		if p := recover(); p != nil {
			res = detectorResult{failure: &detector.DetectorFailure{
				Detector: d.Name(),
				Err:      fmt.Errorf("panic: %v", p),
			}}
		}
	}()

	findings, err := d.Detect(text, requested, modelSpans)
	if err != nil {
		return detectorResult{failure: &detector.DetectorFailure{Detector: d.Name(), Err: err}}
	}
	return detectorResult{findings: findings}
}
