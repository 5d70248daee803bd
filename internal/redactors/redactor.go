// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"strings"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/redactors/position"
)

// Operator defines how an accepted span is rewritten
type Operator int

const (
	// OperatorReplace substitutes a template, by default "[<TYPE>]"
	OperatorReplace Operator = iota
	// OperatorMask overwrites every code point with the mask character
	OperatorMask
	// OperatorRedact removes the span
	OperatorRedact
	// OperatorHash substitutes a deterministic, content derived token
	OperatorHash
	// OperatorKeep leaves the span untouched. Used for audits and tests.
	OperatorKeep
)

// String returns the string representation of the operator
func (o Operator) String() string {
	switch o {
	case OperatorReplace:
		return "replace"
	case OperatorMask:
		return "mask"
	case OperatorRedact:
		return "redact"
	case OperatorHash:
		return "hash"
	case OperatorKeep:
		return "keep"
	default:
		return "unknown"
	}
}

// ParseOperator converts a string to an Operator
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "":
		return OperatorReplace, nil
	case "mask":
		return OperatorMask, nil
	case "redact":
		return OperatorRedact, nil
	case "hash":
		return OperatorHash, nil
	case "keep":
		return OperatorKeep, nil
	default:
		return OperatorReplace, detector.InvalidInputf("unknown operator %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operator) UnmarshalText(b []byte) error {
	op, err := ParseOperator(string(b))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// DefaultMaskChar is used when an OperatorConfig sets no mask character.
const DefaultMaskChar = '*'

// OperatorSpec selects an operator and its parameters for one entity type
type OperatorSpec struct {
	Operator Operator `json:"operator" yaml:"operator"`
	// Template is the replace operator's text. "{type}" expands to the entity type.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// OperatorConfig maps entity types to operators
type OperatorConfig struct {
	Default  OperatorSpec
	PerType  map[string]OperatorSpec
	MaskChar rune
}

// DefaultOperatorConfig replaces every entity with its "[<TYPE>]" placeholder.
func DefaultOperatorConfig() OperatorConfig {
	return OperatorConfig{Default: OperatorSpec{Operator: OperatorReplace}, MaskChar: DefaultMaskChar}
}

// For returns the operator spec for an entity type.
func (c OperatorConfig) For(entityType string) OperatorSpec {
	if spec, ok := c.PerType[entityType]; ok {
		return spec
	}
	return c.Default
}

// Mask returns the mask character, falling back to DefaultMaskChar.
func (c OperatorConfig) Mask() rune {
	if c.MaskChar == 0 {
		return DefaultMaskChar
	}
	return c.MaskChar
}

// ReplacementRecord describes one rewritten span. Offsets are code points;
// Start/End refer to the original text, AnonymizedStart/AnonymizedEnd to the output.
type ReplacementRecord struct {
	EntityType      string   `json:"entity_type" yaml:"entity_type"`
	Start           int      `json:"start" yaml:"start"`
	End             int      `json:"end" yaml:"end"`
	AnonymizedStart int      `json:"anonymized_start" yaml:"anonymized_start"`
	AnonymizedEnd   int      `json:"anonymized_end" yaml:"anonymized_end"`
	Replacement     string   `json:"replacement" yaml:"replacement"`
	Operator        Operator `json:"operator" yaml:"operator"`
	Confidence      float64  `json:"confidence" yaml:"confidence"`
	Detector        string   `json:"detector" yaml:"detector"`
	Explanation     string   `json:"explanation" yaml:"explanation"`

	// Span is the accepted finding. It carries the original text and is never serialized.
	Span detector.Finding `json:"-" yaml:"-"`
}

// Warning codes reported alongside a result.
const (
	WarningModelUnavailable = "model_unavailable"
	WarningLanguageFallback = "language_fallback"
	WarningDetectorFailure  = "detector_failure"
)

// Warning is a non fatal problem encountered while processing a request
type Warning struct {
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Detector string `json:"detector,omitempty" yaml:"detector,omitempty"`
}

// Statistics summarizes a request
type Statistics struct {
	TotalEntities    int            `json:"total_entities" yaml:"total_entities"`
	EntitiesByType   map[string]int `json:"entities_by_type" yaml:"entities_by_type"`
	ProcessingTimeMS int64          `json:"processing_time_ms" yaml:"processing_time_ms"`
}

// EntityReport is the result of anonymizing one text
type EntityReport struct {
	RequestID      string              `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Language       string              `json:"language,omitempty" yaml:"language,omitempty"`
	AnonymizedText string              `json:"anonymized_text" yaml:"anonymized_text"`
	Records        []ReplacementRecord `json:"records" yaml:"records"`
	Positions      *position.Table     `json:"positions,omitempty" yaml:"positions,omitempty"`
	Warnings       []Warning           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Statistics     Statistics          `json:"statistics" yaml:"statistics"`
}

// Summarize fills Statistics.TotalEntities and EntitiesByType from Records.
func (r *EntityReport) Summarize() {
	r.Statistics.TotalEntities = len(r.Records)
	r.Statistics.EntitiesByType = make(map[string]int)
	for _, rec := range r.Records {
		r.Statistics.EntitiesByType[rec.EntityType]++
	}
}

// String returns a short human readable description of the warning.
func (w Warning) String() string {
	if w.Detector != "" {
		return fmt.Sprintf("%s (%s): %s", w.Code, w.Detector, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
