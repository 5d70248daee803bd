// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/formatters/shared"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, same fields as JSON"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(result formatters.Result, options formatters.FormatterOptions) (string, error) {
	// Same payload as the JSON formatter
	payload := shared.ConvertResult(result, options)

	data, err := yaml.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("formatting YAML: %w", err)
	}

	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
