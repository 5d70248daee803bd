// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a detector
type CheckInfo struct {
	Name                string             // Entity type emitted (e.g., "CZECH_ICO")
	Language            string             // Language code, "" when language agnostic
	ShortDescription    string             // Short description for the catalogue
	DetailedDescription string             // Detailed description of what the detector does
	Patterns            []string           // Formats the detector looks for
	ConfidenceFactors   []ConfidenceFactor // Factors affecting confidence
	PositiveKeywords    []string           // Context keywords that raise confidence
	Examples            []string           // Sample values
}

// ConfidenceFactor represents a factor that affects confidence scoring
type ConfidenceFactor struct {
	Name        string  // Name of the factor
	Description string  // Description of the factor
	Weight      float64 // Contribution to the score, in [0,1]
}

// Provider defines the interface for help content providers
type Provider interface {
	GetCheckInfo() CheckInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	colors    map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		providers: make(map[string]Provider),
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"positive": color.New(color.FgGreen),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetCheckInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// Names returns the registered entity types in alphabetical order.
func (h *System) Names() []string {
	names := make([]string, 0, len(h.providers))
	for _, p := range h.providers {
		names = append(names, p.GetCheckInfo().Name)
	}
	sort.Strings(names)
	return names
}

// WriteCatalogue writes a table of every registered detector.
func (h *System) WriteCatalogue(out io.Writer) {
	h.colors["title"].Fprintln(out, "Available detectors")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ENTITY\tLANGUAGE\tDESCRIPTION")
	fmt.Fprintln(w, "  ------\t--------\t-----------")
	for _, name := range h.Names() {
		info := h.providers[strings.ToLower(name)].GetCheckInfo()
		lang := info.Language
		if lang == "" {
			lang = "any"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", info.Name, lang, info.ShortDescription)
	}
	w.Flush()
}

// WriteCheck writes the detailed help of one detector. It returns false when
// the detector is unknown.
func (h *System) WriteCheck(out io.Writer, name string) bool {
	provider, ok := h.providers[strings.ToLower(name)]
	if !ok {
		return false
	}
	info := provider.GetCheckInfo()

	h.colors["title"].Fprintln(out, info.Name)
	fmt.Fprintln(out, strings.Repeat("=", len(info.Name)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, info.DetailedDescription)

	if len(info.Patterns) > 0 {
		fmt.Fprintln(out)
		h.colors["header"].Fprintln(out, "PATTERNS:")
		for _, p := range info.Patterns {
			h.colors["item"].Fprintf(out, "  • %s\n", p)
		}
	}

	if len(info.ConfidenceFactors) > 0 {
		fmt.Fprintln(out)
		h.colors["header"].Fprintln(out, "CONFIDENCE:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, f := range info.ConfidenceFactors {
			fmt.Fprintf(w, "  %s\t%+.2f\t%s\n", f.Name, f.Weight, f.Description)
		}
		w.Flush()
	}

	if len(info.PositiveKeywords) > 0 {
		fmt.Fprintln(out)
		h.colors["header"].Fprintln(out, "CONTEXT KEYWORDS:")
		h.colors["positive"].Fprintf(out, "  %s\n", strings.Join(info.PositiveKeywords, ", "))
	}

	if len(info.Examples) > 0 {
		fmt.Fprintln(out)
		h.colors["header"].Fprintln(out, "EXAMPLES:")
		for _, e := range info.Examples {
			h.colors["example"].Fprintf(out, "  %s\n", e)
		}
	}
	return true
}
