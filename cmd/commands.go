// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/help"
	"meddoc-anonymizer/internal/version"
)

// errBatchFailures is returned after the batch output when documents failed.
var errBatchFailures = errors.New("batch finished with failures")

func (a *app) detectCmd() *cobra.Command {
	var showMatch, verbose bool

	cmd := &cobra.Command{
		Use:   "detect [FILE]",
		Short: "Report the personal data found in a document",
		Long: `Detect runs every detector for the document language and prints the accepted,
non-overlapping entities. Matched text is hidden unless --show-match is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(args)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			detection, err := engine.Detect(cmd.Context(), text, a.language(), a.cfg.Defaults.Types...)
			if err != nil {
				return err
			}
			return a.write(formatters.Result{Detection: detection, Original: text}, formatters.FormatterOptions{
				ShowMatch: showMatch,
				Verbose:   verbose,
			})
		},
	}

	cmd.Flags().BoolVar(&showMatch, "show-match", false, "include matched text and detector metadata")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detector explanations")
	return cmd
}

func (a *app) anonymizeCmd() *cobra.Command {
	var (
		showMatch bool
		verbose   bool
		showDiff  bool
		textOnly  bool
		spansFile string
	)

	cmd := &cobra.Command{
		Use:     "anonymize [FILE]",
		Aliases: []string{"process"},
		Short:   "Detect personal data and rewrite it",
		Long: `Anonymize detects entities and rewrites them with the configured operators.
With --spans the detection step is skipped and the given spans are rewritten;
the file holds a JSON array of spans or the JSON output of "detect".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(args)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			var result formatters.Result
			if spansFile != "" {
				spans, err := readSpans(spansFile)
				if err != nil {
					return err
				}
				result.Report, err = engine.Anonymize(cmd.Context(), text, spans, nil)
				if err != nil {
					return err
				}
			} else {
				result.Report, err = engine.Process(cmd.Context(), text, a.language(), a.cfg.Defaults.Types...)
				if err != nil {
					return err
				}
			}

			if textOnly {
				_, err = io.WriteString(a.stdout, result.Report.AnonymizedText)
				return err
			}

			result.Original = text
			return a.write(result, formatters.FormatterOptions{
				ShowMatch: showMatch,
				Verbose:   verbose,
				ShowDiff:  showDiff,
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&showMatch, "show-match", false, "include the original text of each entity")
	flags.BoolVarP(&verbose, "verbose", "v", false, "show detector explanations")
	flags.BoolVar(&showDiff, "diff", false, "show an inline diff against the original (text format, reveals the original)")
	flags.BoolVar(&textOnly, "text-only", false, "print only the anonymized text")
	flags.StringVar(&spansFile, "spans", "", "rewrite the spans from this JSON file instead of detecting")
	return cmd
}

// readSpans accepts a bare JSON array or an object with a "spans" field.
func readSpans(path string) ([]detector.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", detector.ErrInvalidInput, err)
	}
	data = bytes.TrimSpace(data)

	var doc struct {
		Spans []detector.Finding `json:"spans"`
	}
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &doc.Spans)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, detector.InvalidInputf("spans file %s: %v", path, err)
	}
	return doc.Spans, nil
}

func (a *app) batchCmd() *cobra.Command {
	var showMatch bool

	cmd := &cobra.Command{
		Use:   "batch [FILE...]",
		Short: "Anonymize several documents in parallel",
		Long: `Batch anonymizes every file argument as one document, identified by its base
name. Without arguments a JSON array of {"id", "text", "language"} documents is
read from stdin. Failed documents are reported in the output and the command
exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.readDocuments(args)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			results, err := engine.ProcessBatch(cmd.Context(), docs)
			if err != nil {
				return err
			}
			if err := a.write(formatters.Result{Batch: results}, formatters.FormatterOptions{ShowMatch: showMatch}); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d documents", errBatchFailures, failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMatch, "show-match", false, "include the original text of each entity")
	return cmd
}

func (a *app) readDocuments(args []string) ([]core.Document, error) {
	lang := a.language()

	if len(args) == 0 {
		var docs []core.Document
		dec := json.NewDecoder(io.LimitReader(a.stdin, a.cfg.Pipeline.MaxInputBytes*int64(max(a.cfg.Batch.MaxSize, 1))))
		if err := dec.Decode(&docs); err != nil {
			return nil, detector.InvalidInputf("batch input: %v", err)
		}
		for i := range docs {
			if docs[i].Language == "" {
				docs[i].Language = lang
			}
		}
		return docs, nil
	}

	docs := make([]core.Document, 0, len(args))
	for _, path := range args {
		text, err := a.readInput([]string{path})
		if err != nil {
			return nil, err
		}
		docs = append(docs, core.Document{ID: filepath.Base(path), Text: text, Language: lang})
	}
	return docs, nil
}

func (a *app) detectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detectors [ENTITY_TYPE]",
		Short: "List the enabled detectors or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := core.BuildRegistry(a.cfg, a.observer)
			if err != nil {
				return err
			}

			system := help.NewSystem(a.noColor)
			for _, lang := range registry.Languages() {
				for _, d := range registry.Detectors(lang) {
					if p, ok := d.(help.Provider); ok {
						system.RegisterProvider(p)
					}
				}
			}

			if len(args) == 0 {
				system.WriteCatalogue(a.stdout)
				return nil
			}
			if !system.WriteCheck(a.stdout, args[0]) {
				return detector.InvalidInputf("unknown detector %q (available: %s)", args[0], strings.Join(system.Names(), ", "))
			}
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.format() == "json" {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(version.Full())
			}
			_, err := fmt.Fprintln(a.stdout, version.Info())
			return err
		},
	}
}
