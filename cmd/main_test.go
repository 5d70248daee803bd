// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/model"
)

const sample = "Jan Novák, id 760506/1234, email jan.novak@email.com"

// run executes the CLI in an empty working directory so no config file or
// .env is picked up.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &stdout, &stderr,
		core.WithExtractor(model.NewStatic().Add("Jan Novák", "PER")))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	root := newRootCmd(nil, &bytes.Buffer{}, &bytes.Buffer{})
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range []string{"detect", "anonymize", "batch", "detectors", "version"} {
		assert.True(t, registered[name], "subcommand %q should be registered", name)
	}

	for _, flag := range []string{"config", "profile", "language", "format", "operator", "types", "log-level", "log-format", "no-color", "debug"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should be registered", flag)
	}
}

func TestAnonymize_JSON(t *testing.T) {
	out, _, err := run(t, sample, "anonymize", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Language       string `json:"language"`
		AnonymizedText string `json:"anonymized_text"`
		Records        []struct {
			EntityType string `json:"entity_type"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "cs", report.Language)
	assert.Equal(t, "[PERSON], id [CZECH_BIRTH_NUMBER], email [EMAIL_ADDRESS]", report.AnonymizedText)
	assert.Len(t, report.Records, 3)
	assert.NotContains(t, out, "760506/1234")
}

func TestAnonymize_Variants(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "text only with mask",
			args: []string{"anonymize", "--text-only", "--operator", "mask"},
			want: []string{"*********, id ***********, email "},
		},
		{
			name:    "alias and types",
			args:    []string{"process", "--text-only", "--types", "EMAIL_ADDRESS"},
			want:    []string{"Jan Novák, id 760506/1234, email [EMAIL_ADDRESS]"},
			notWant: []string{"[PERSON]"},
		},
		{
			name:    "text format",
			args:    []string{"anonymize"},
			want:    []string{"ANONYMIZED TEXT", "CZECH_BIRTH_NUMBER", "3 entities"},
			notWant: []string{"760506/1234", "\x1b["},
		},
		{
			name: "diff view",
			args: []string{"anonymize", "--diff"},
			want: []string{"DIFF", "[-760506/1234-]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, sample, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestAnonymize_Spans(t *testing.T) {
	dir := t.TempDir()
	spans := filepath.Join(dir, "spans.json")
	require.NoError(t, os.WriteFile(spans, []byte(`{"spans":[{"entity_type":"PERSON","start":0,"end":9}]}`), 0o600))

	out, _, err := run(t, sample, "anonymize", "--text-only", "--spans", spans)
	require.NoError(t, err)
	assert.Equal(t, "[PERSON], id 760506/1234, email jan.novak@email.com", out)

	require.NoError(t, os.WriteFile(spans, []byte(`[{"entity_type":"PERSON","start":0,"end":900}]`), 0o600))
	_, _, err = run(t, sample, "anonymize", "--spans", spans)
	assert.ErrorIs(t, err, detector.ErrInvalidInput)
	assert.Equal(t, exitInvalidInput, exitCode(err))
}

func TestDetect(t *testing.T) {
	out, _, err := run(t, sample, "detect", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"entity_type": "CZECH_BIRTH_NUMBER"`)
	assert.NotContains(t, out, "760506/1234")

	out, _, err = run(t, sample, "detect", "--format", "yaml", "--show-match")
	require.NoError(t, err)
	assert.Contains(t, out, "760506/1234")
}

func TestDetect_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("SSN 123-45-6789"), 0o600))

	out, _, err := run(t, "", "detect", "-l", "en", "--format", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, "US_SSN")
	assert.Contains(t, out, `"language": "en"`)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "a.txt")
	empty := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(ok, []byte(sample), 0o600))
	require.NoError(t, os.WriteFile(empty, []byte("   "), 0o600))

	out, _, err := run(t, "", "batch", "--format", "json", ok, empty)
	require.ErrorIs(t, err, errBatchFailures)
	assert.Equal(t, exitFailure, exitCode(err))

	var resp struct {
		Documents []struct {
			DocumentID string `json:"document_id"`
			Error      string `json:"error"`
		} `json:"documents"`
		Summary struct {
			Failed int `json:"failed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "a.txt", resp.Documents[0].DocumentID)
	assert.Empty(t, resp.Documents[0].Error)
	assert.NotEmpty(t, resp.Documents[1].Error)
	assert.Equal(t, 1, resp.Summary.Failed)
}

func TestBatch_Stdin(t *testing.T) {
	stdin := `[{"id":"x","text":"mail a@b.cz"},{"id":"y","text":"SSN 123-45-6789","language":"en"}]`
	out, _, err := run(t, stdin, "batch")
	require.NoError(t, err)
	assert.Contains(t, out, "=== x ===")
	assert.Contains(t, out, "[EMAIL_ADDRESS]")
	assert.Contains(t, out, "[US_SSN]")
	assert.Contains(t, out, "2 documents, 0 failed")

	_, _, err = run(t, "not json", "batch")
	assert.ErrorIs(t, err, detector.ErrInvalidInput)
}

func TestDetectors(t *testing.T) {
	out, _, err := run(t, "", "detectors")
	require.NoError(t, err)
	assert.Contains(t, out, "CZECH_BIRTH_NUMBER")
	assert.Contains(t, out, "US_SSN")

	out, _, err = run(t, "", "detectors", "czech_birth_number")
	require.NoError(t, err)
	assert.Contains(t, out, "PATTERNS:")

	_, _, err = run(t, "", "detectors", "SHOE_SIZE")
	assert.ErrorIs(t, err, detector.ErrInvalidInput)
}

func TestConfigAndProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meddoc.yaml")
	cfg := `
defaults:
  format: json
operators:
  default:
    operator: redact
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	out, _, err := run(t, "mail a@b.cz", "anonymize", "--config", path, "--profile", "testing")
	require.NoError(t, err)
	assert.Contains(t, out, `"anonymized_text": "mail "`)

	_, _, err = run(t, "x", "anonymize", "--config", path, "--profile", "staging")
	assert.ErrorIs(t, err, detector.ErrInvalidInput)

	_, _, err = run(t, "x", "anonymize", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, detector.ErrInvalidInput)
}

func TestEnvironmentOverridesFlagsDefault(t *testing.T) {
	t.Setenv("MEDDOC_FORMAT", "yaml")
	out, _, err := run(t, "mail a@b.cz", "anonymize")
	require.NoError(t, err)
	assert.Contains(t, out, "anonymized_text: mail [EMAIL_ADDRESS]")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  int
	}{
		{name: "empty input", stdin: "  ", args: []string{"anonymize"}, code: exitInvalidInput},
		{name: "unsupported format", stdin: sample, args: []string{"anonymize", "--format", "xml"}, code: exitInvalidInput},
		{name: "unknown operator", stdin: sample, args: []string{"anonymize", "--operator", "shred"}, code: exitInvalidInput},
		{name: "unknown flag", stdin: sample, args: []string{"anonymize", "--frobnicate"}, code: exitInvalidInput},
		{name: "missing file", args: []string{"detect", "/nonexistent/note.txt"}, code: exitInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
	assert.Equal(t, exitInvalidInput, exitCode(fmt.Errorf("wrapped: %w", detector.ErrInvalidInput)))
	assert.Equal(t, exitInvalidInput, exitCode(detector.ErrUnsupportedLanguage))
	assert.Equal(t, exitFailure, exitCode(detector.ErrInternal))
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "meddoc-anonymizer "))

	out, _, err = run(t, "", "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
