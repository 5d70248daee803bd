// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"meddoc-anonymizer/internal/config"
	ctxscore "meddoc-anonymizer/internal/context"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/observability"
	"meddoc-anonymizer/internal/validators"
	"meddoc-anonymizer/internal/validators/address"
	"meddoc-anonymizer/internal/validators/bankaccount"
	"meddoc-anonymizer/internal/validators/birthnumber"
	"meddoc-anonymizer/internal/validators/creditcard"
	"meddoc-anonymizer/internal/validators/diagnosis"
	"meddoc-anonymizer/internal/validators/dic"
	"meddoc-anonymizer/internal/validators/drivinglicense"
	"meddoc-anonymizer/internal/validators/email"
	"meddoc-anonymizer/internal/validators/iban"
	"meddoc-anonymizer/internal/validators/ico"
	"meddoc-anonymizer/internal/validators/idcard"
	"meddoc-anonymizer/internal/validators/insurance"
	"meddoc-anonymizer/internal/validators/ipaddress"
	"meddoc-anonymizer/internal/validators/medicalfacility"
	"meddoc-anonymizer/internal/validators/passport"
	"meddoc-anonymizer/internal/validators/personname"
	"meddoc-anonymizer/internal/validators/phone"
	"meddoc-anonymizer/internal/validators/ssn"
)

// contextScored is implemented by detectors that boost on nearby keywords.
type contextScored interface {
	Scorer() *ctxscore.Scorer
	SetScorer(*ctxscore.Scorer)
}

// BuiltinDetectors returns a fresh instance of every detector in registration
// order. Checksum-backed identifiers come first so they win confidence ties.
func BuiltinDetectors() []detector.Detector {
	return []detector.Detector{
		birthnumber.NewValidator(),
		ico.NewValidator(),
		dic.NewValidator(),
		insurance.NewValidator(),
		idcard.NewValidator(),
		passport.NewValidator(),
		drivinglicense.NewValidator(),
		phone.NewValidator(),
		bankaccount.NewValidator(),
		iban.NewValidator(),
		creditcard.NewValidator(),
		email.NewValidator(),
		ipaddress.NewValidator(),
		address.NewValidator(),
		medicalfacility.NewValidator(),
		diagnosis.NewValidator(),
		ssn.NewValidator(),
		personname.NewValidator(),
	}
}

// SupportedEntityTypes returns every entity type the built-in detectors emit, sorted.
func SupportedEntityTypes() []string {
	var types []string
	for _, d := range BuiltinDetectors() {
		types = append(types, d.SupportedTypes()...)
	}
	sort.Strings(types)
	return slices.Compact(types)
}

// BuildRegistry constructs the detectors, applies the per-entity overrides
// from cfg and returns a sealed registry. Pass nil for cfg to use the
// built-in settings.
func BuildRegistry(cfg *config.Config, observer *observability.StandardObserver) (*validators.Registry, error) {
	overrides := map[string]config.DetectorConfig{}
	if cfg != nil {
		overrides = cfg.Detectors
	}

	known := make(map[string]bool)
	registry := validators.NewRegistry(observer)
	for _, d := range BuiltinDetectors() {
		types := d.SupportedTypes()
		for _, t := range types {
			known[t] = true
		}

		override, ok := findOverride(overrides, types)
		if ok && !override.IsEnabled() {
			observer.Debug("factory", "detector disabled by configuration", map[string]interface{}{"detector": d.Name()})
			continue
		}
		if ok {
			applyOverride(d, override, observer)
		}

		if err := registry.Register(d); err != nil {
			return nil, fmt.Errorf("registering %s: %w", d.Name(), err)
		}
	}

	for entityType := range overrides {
		if !known[entityType] {
			return nil, detector.InvalidInputf("detectors.%s: unknown entity type", entityType)
		}
	}

	registry.Seal()
	return registry, nil
}

func findOverride(overrides map[string]config.DetectorConfig, types []string) (config.DetectorConfig, bool) {
	for _, t := range types {
		if o, ok := overrides[t]; ok {
			return o, true
		}
	}
	return config.DetectorConfig{}, false
}

// applyOverride rebuilds keyword tables once, before the registry is sealed.
func applyOverride(d detector.Detector, override config.DetectorConfig, observer *observability.StandardObserver) {
	switch v := d.(type) {
	case *medicalfacility.Validator:
		if len(override.ContextWords) > 0 {
			v.SetKeywords(override.ContextWords)
		}
		if override.ContextBoost != nil {
			observer.Warn("factory", "context_boost ignored for keyword detector", map[string]interface{}{"detector": d.Name()})
		}

	case contextScored:
		scorer := v.Scorer()
		if len(override.ContextWords) > 0 {
			scorer = scorer.WithKeywords(override.ContextWords)
		}
		if override.ContextBoost != nil {
			scorer = scorer.WithBoost(*override.ContextBoost)
		}
		v.SetScorer(scorer)

	default:
		if len(override.ContextWords) > 0 || override.ContextBoost != nil {
			observer.Warn("factory", "detector has no context scoring, override ignored", map[string]interface{}{
				"detector": d.Name(),
				"types":    strings.Join(d.SupportedTypes(), ","),
			})
		}
	}
}
