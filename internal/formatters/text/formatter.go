// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/formatters/shared"
	"meddoc-anonymizer/internal/redactors"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxColumnWidth = 30
	redactedLabel  = "[REDACTED]"
)

// Formatter implements text-based output formatting
type Formatter struct{}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors, tables and an optional diff view"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

type palette struct {
	header *color.Color
	high   *color.Color
	medium *color.Color
	low    *color.Color
	warn   *color.Color
	del    *color.Color
	ins    *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		header: color.New(color.FgWhite, color.Bold),
		high:   color.New(color.FgRed),
		medium: color.New(color.FgYellow),
		low:    color.New(color.FgGreen),
		warn:   color.New(color.FgMagenta),
		del:    color.New(color.FgRed, color.CrossedOut),
		ins:    color.New(color.FgGreen, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.header, p.high, p.medium, p.low, p.warn, p.del, p.ins} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) level(level string) *color.Color {
	switch level {
	case "HIGH":
		return p.high
	case "MEDIUM":
		return p.medium
	default:
		return p.low
	}
}

func (f *Formatter) Format(result formatters.Result, options formatters.FormatterOptions) (string, error) {
	p := newPalette(options.NoColor)
	var builder strings.Builder

	switch {
	case result.Report != nil:
		f.appendReport(&builder, result.Report, options, p)
		if options.ShowDiff && result.Original != "" {
			builder.WriteString("\n")
			builder.WriteString(p.header.Sprint("DIFF"))
			builder.WriteString("\n")
			builder.WriteString(renderDiff(result.Original, result.Report, p))
			builder.WriteString("\n")
		}
	case result.Detection != nil:
		f.appendDetection(&builder, result.Detection, options, p)
	default:
		f.appendBatch(&builder, result.Batch, options, p)
	}

	return builder.String(), nil
}

func (f *Formatter) appendReport(builder *strings.Builder, report *redactors.EntityReport, options formatters.FormatterOptions, p palette) {
	builder.WriteString(p.header.Sprint("ANONYMIZED TEXT"))
	builder.WriteString("\n")
	builder.WriteString(report.AnonymizedText)
	if !strings.HasSuffix(report.AnonymizedText, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString("\n")

	if len(report.Records) == 0 {
		builder.WriteString("No entities found.\n")
		f.appendWarnings(builder, report.Warnings, p)
		return
	}

	typeWidth, replWidth, matchWidth := 4, 11, len(redactedLabel)
	for _, rec := range report.Records {
		typeWidth = max(typeWidth, len(rec.EntityType))
		replWidth = max(replWidth, min(runeLen(rec.Replacement), maxColumnWidth))
		if options.ShowMatch {
			matchWidth = max(matchWidth, min(runeLen(rec.Span.Text), maxColumnWidth))
		}
	}

	header := fmt.Sprintf("%-8s %-*s %-6s %-12s %-12s %-8s %-*s", "LEVEL", typeWidth, "TYPE", "CONF%", "ORIGINAL", "OUTPUT", "OPERATOR", replWidth, "REPLACEMENT")
	if options.ShowMatch {
		header += fmt.Sprintf(" %-*s", matchWidth, "MATCH")
	}
	builder.WriteString(p.header.Sprint(header))
	builder.WriteString("\n")
	builder.WriteString(p.header.Sprint(strings.Repeat("-", runeLen(header))))
	builder.WriteString("\n")

	for _, rec := range report.Records {
		level := shared.GetConfidenceLevel(rec.Confidence)
		line := fmt.Sprintf("%s %-*s %-6d %-12s %-12s %-8s %-*s",
			p.level(level).Sprintf("%-8s", level),
			typeWidth, rec.EntityType,
			percent(rec.Confidence),
			fmt.Sprintf("%d-%d", rec.Start, rec.End),
			fmt.Sprintf("%d-%d", rec.AnonymizedStart, rec.AnonymizedEnd),
			rec.Operator.String(),
			replWidth, cell(rec.Replacement),
		)
		if options.ShowMatch {
			line += fmt.Sprintf(" %-*s", matchWidth, cell(rec.Span.Text))
		}
		builder.WriteString(strings.TrimRight(line, " "))
		builder.WriteString("\n")

		if options.Verbose {
			fmt.Fprintf(builder, "         detector: %s\n", rec.Detector)
			if rec.Explanation != "" {
				fmt.Fprintf(builder, "         %s\n", rec.Explanation)
			}
		}
	}

	f.appendWarnings(builder, report.Warnings, p)

	builder.WriteString("\n")
	builder.WriteString(summaryLine(report.Statistics.TotalEntities, report.Statistics.EntitiesByType))
	if report.Statistics.ProcessingTimeMS > 0 {
		fmt.Fprintf(builder, " in %d ms", report.Statistics.ProcessingTimeMS)
	}
	builder.WriteString("\n")
}

func (f *Formatter) appendDetection(builder *strings.Builder, d *core.Detection, options formatters.FormatterOptions, p palette) {
	if len(d.Spans) == 0 {
		builder.WriteString("No entities found.\n")
		f.appendWarnings(builder, d.Warnings, p)
		return
	}

	typeWidth, detectorWidth := 4, 8
	matchWidth := len(redactedLabel)
	for _, s := range d.Spans {
		typeWidth = max(typeWidth, len(s.EntityType))
		detectorWidth = max(detectorWidth, len(s.Detector))
		if options.ShowMatch {
			matchWidth = max(matchWidth, min(runeLen(s.Text), maxColumnWidth))
		}
	}

	header := fmt.Sprintf("%-8s %-*s %-6s %-12s %-*s %s", "LEVEL", typeWidth, "TYPE", "CONF%", "RANGE", detectorWidth, "DETECTOR", "MATCH")
	builder.WriteString(p.header.Sprint(header))
	builder.WriteString("\n")
	builder.WriteString(p.header.Sprint(strings.Repeat("-", len(header)+matchWidth-len("MATCH"))))
	builder.WriteString("\n")

	byType := make(map[string]int)
	for _, s := range d.Spans {
		byType[s.EntityType]++
		level := shared.GetConfidenceLevel(s.Confidence)
		fmt.Fprintf(builder, "%s %-*s %-6d %-12s %-*s %s\n",
			p.level(level).Sprintf("%-8s", level),
			typeWidth, s.EntityType,
			percent(s.Confidence),
			fmt.Sprintf("%d-%d", s.Start, s.End),
			detectorWidth, s.Detector,
			matchCell(s, options),
		)
		if options.Verbose {
			if s.Explanation != "" {
				fmt.Fprintf(builder, "         %s\n", s.Explanation)
			}
			if options.ShowMatch {
				for _, k := range sortedKeys(s.Metadata) {
					fmt.Fprintf(builder, "         %s: %s\n", k, s.Metadata[k])
				}
			}
		}
	}

	f.appendWarnings(builder, d.Warnings, p)

	builder.WriteString("\n")
	builder.WriteString(summaryLine(len(d.Spans), byType))
	if d.Language != "" {
		fmt.Fprintf(builder, " (language %s)", d.Language)
	}
	builder.WriteString("\n")
}

func (f *Formatter) appendBatch(builder *strings.Builder, results []core.BatchResult, options formatters.FormatterOptions, p palette) {
	summary := shared.SummarizeBatch(results)
	for i, doc := range summary.Documents {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(p.header.Sprintf("=== %s ===", doc.DocumentID))
		builder.WriteString("\n")
		if doc.Error != "" {
			builder.WriteString(p.high.Sprintf("error: %s", doc.Error))
			builder.WriteString("\n")
			continue
		}
		if doc.Report != nil {
			f.appendReport(builder, doc.Report, options, p)
		}
	}

	builder.WriteString("\n")
	fmt.Fprintf(builder, "%d documents, %d failed, %s\n",
		summary.Summary.Documents, summary.Summary.Failed,
		summaryLine(summary.Summary.TotalEntities, summary.Summary.ByType))
}

func (f *Formatter) appendWarnings(builder *strings.Builder, warnings []redactors.Warning, p palette) {
	if len(warnings) == 0 {
		return
	}
	builder.WriteString("\n")
	builder.WriteString(p.warn.Sprint("Warnings:"))
	builder.WriteString("\n")
	for _, w := range warnings {
		builder.WriteString(p.warn.Sprintf("  ! %s", w.String()))
		builder.WriteString("\n")
	}
}

// renderDiff marks removed text as [-...-] and inserted text as {+...+}.
// The markers keep the diff readable when colors are disabled.
func renderDiff(original string, report *redactors.EntityReport, p palette) string {
	dmp := diffmatchpatch.New()
	diffs, ok := recordDiffs(original, report.Records)
	if !ok {
		diffs = dmp.DiffMain(original, report.AnonymizedText, false)
		diffs = dmp.DiffCleanupSemanticLossless(diffs)
	}
	diffs = dmp.DiffCleanupMerge(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString(p.del.Sprint("[-" + d.Text + "-]"))
		case diffmatchpatch.DiffInsert:
			b.WriteString(p.ins.Sprint("{+" + d.Text + "+}"))
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	fmt.Fprintf(&b, "\n(%d characters changed)", dmp.DiffLevenshtein(diffs))
	return b.String()
}

// recordDiffs builds the diff from the exact replacement ranges. It reports
// false when the records do not tile the original text in order.
func recordDiffs(original string, records []redactors.ReplacementRecord) ([]diffmatchpatch.Diff, bool) {
	runes := []rune(original)
	diffs := make([]diffmatchpatch.Diff, 0, 3*len(records)+1)
	pos := 0
	for _, rec := range records {
		if rec.Start < pos || rec.End < rec.Start || rec.End > len(runes) {
			return nil, false
		}
		if rec.Start > pos {
			diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: string(runes[pos:rec.Start])})
		}
		span := string(runes[rec.Start:rec.End])
		if span == rec.Replacement {
			diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: span})
		} else {
			if span != "" {
				diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffDelete, Text: span})
			}
			if rec.Replacement != "" {
				diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffInsert, Text: rec.Replacement})
			}
		}
		pos = rec.End
	}
	if pos < len(runes) {
		diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: string(runes[pos:])})
	}
	return diffs, true
}

func summaryLine(total int, byType map[string]int) string {
	noun := "entities"
	if total == 1 {
		noun = "entity"
	}
	if len(byType) == 0 {
		return fmt.Sprintf("%d %s", total, noun)
	}
	parts := make([]string, 0, len(byType))
	for _, t := range sortedKeys(byType) {
		parts = append(parts, fmt.Sprintf("%s %d", t, byType[t]))
	}
	return fmt.Sprintf("%d %s (%s)", total, noun, strings.Join(parts, ", "))
}

func matchCell(s detector.Finding, options formatters.FormatterOptions) string {
	if !options.ShowMatch || s.Text == "" {
		return redactedLabel
	}
	return cell(s.Text)
}

// cell flattens whitespace and truncates to maxColumnWidth code points.
func cell(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
	r := []rune(s)
	if len(r) > maxColumnWidth {
		return string(r[:maxColumnWidth-3]) + "..."
	}
	return s
}

func percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

func runeLen(s string) int {
	return len([]rune(s))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
