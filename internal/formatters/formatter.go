// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"

	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/redactors"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose   bool // Whether to display detailed information
	NoColor   bool // Whether to disable colored output
	ShowMatch bool // Whether to display the original matched text and detector metadata
	ShowDiff  bool // Whether the text formatter renders an inline diff against Result.Original
	Compact   bool // Single line JSON
}

// Result is what a command hands to a formatter. Exactly one of Report,
// Detection or Batch is set.
type Result struct {
	Report    *redactors.EntityReport
	Detection *core.Detection
	Batch     []core.BatchResult

	// Original is the input text. Only the diff view reads it.
	Original string
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the result according to the formatter's specific output format
	Format(result Result, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "yaml")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export formats result with the named formatter from this registry
func (r *Registry) Export(format string, result Result, options FormatterOptions) (string, error) {
	formatter, exists := r.Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(r.List(), ", "))
	}
	if result.Report == nil && result.Detection == nil && result.Batch == nil {
		return "", fmt.Errorf("nothing to format")
	}
	return formatter.Format(result, options)
}

// FormatInfo provides metadata about a formatter
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export is the entry point used by the CLI
func Export(format string, result Result, options FormatterOptions) (string, error) {
	return DefaultRegistry.Export(format, result, options)
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}

	switch name {
	case "json":
		info.MimeType = "application/json"
	case "yaml":
		info.MimeType = "application/x-yaml"
	case "text":
		info.MimeType = "text/plain"
	default:
		info.MimeType = "application/octet-stream"
	}

	return info
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formats = append(formats, GetFormatInfo(name))
	}
	return formats
}
