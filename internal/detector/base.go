// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// Base carries the identity shared by concrete detectors. Embed it to get
// Name, Language and SupportedTypes.
type Base struct {
	name     string
	language string
	types    []string
}

// NewBase creates a detector identity. An empty language means language agnostic.
func NewBase(name, language string, types ...string) Base {
	return Base{name: name, language: language, types: types}
}

func (b Base) Name() string {
	return b.name
}

func (b Base) Language() string {
	return b.language
}

func (b Base) SupportedTypes() []string {
	return append([]string(nil), b.types...)
}

// Wants reports whether any of the detector's types is requested.
func (b Base) Wants(requested TypeSet) bool {
	return requested.AllowsAny(b.types)
}

// Finding builds a finding attributed to this detector covering [start,end) of text.
func (b Base) Finding(text *Text, entityType string, start, end int, confidence float64, explanation string) Finding {
	return Finding{
		EntityType:  entityType,
		Start:       start,
		End:         end,
		Confidence:  ClampConfidence(confidence),
		Detector:    b.name,
		Explanation: explanation,
		Metadata:    map[string]string{},
		Text:        text.Slice(start, end),
	}
}
