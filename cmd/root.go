// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"meddoc-anonymizer/internal/config"
	"meddoc-anonymizer/internal/core"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/formatters"
	"meddoc-anonymizer/internal/observability"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper

	cfg      *config.Config
	observer *observability.StandardObserver
	noColor  bool

	engineOptions []core.Option
}

// newRootCmd builds the command tree. engineOptions are passed to every
// engine the commands construct.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer, engineOptions ...core.Option) *cobra.Command {
	a := &app{
		stdin:         stdin,
		stdout:        stdout,
		stderr:        stderr,
		v:             viper.New(),
		engineOptions: engineOptions,
	}

	root := &cobra.Command{
		Use:   "meddoc-anonymizer",
		Short: "Detect and anonymize personal data in medical documents",
		Long: `meddoc-anonymizer finds personal data in Czech and English free text and
rewrites it with configurable operators.

Detected entities include Czech birth numbers, company and VAT ids, insurance
numbers, identity cards, passports, phone numbers, bank accounts, IBANs, card
numbers, e-mail and IP addresses, postal addresses, medical facilities,
diagnosis codes, US social security numbers and person names.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", detector.ErrInvalidInput, err)
	})

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: meddoc.yaml, .meddoc-anonymizer.yaml or the user config dir)")
	pf.String("profile", "", "configuration profile (development, production, testing)")
	pf.StringP("language", "l", "", "document language (default from configuration)")
	pf.StringP("format", "f", "", "output format: "+strings.Join(formatters.List(), ", "))
	pf.String("operator", "", "default operator: replace, mask, redact, hash, keep")
	pf.StringSlice("types", nil, "entity types to detect, comma separated (default all)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	pf.Bool("no-color", false, "disable colored output")
	pf.Bool("debug", false, "log every pipeline step")

	_ = a.v.BindPFlags(pf)
	a.v.SetEnvPrefix("MEDDOC")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.detectCmd(),
		a.anonymizeCmd(),
		a.batchCmd(),
		a.detectorsCmd(),
		a.versionCmd(),
	)
	return root
}

// setup resolves configuration with the precedence defaults < file <
// profile < environment < flags and initializes logging.
func (a *app) setup() error {
	cfg, err := a.loadConfiguration()
	if err != nil {
		return err
	}

	if profile := a.v.GetString("profile"); profile != "" {
		if err := cfg.ApplyProfile(profile); err != nil {
			return fmt.Errorf("%w: %w", detector.ErrInvalidInput, err)
		}
	}
	if err := cfg.ApplyEnv(".env"); err != nil {
		return fmt.Errorf("%w: %w", detector.ErrInvalidInput, err)
	}
	if op := a.v.GetString("operator"); op != "" {
		cfg.Operators.Default = config.OperatorEntry{Operator: op}
	}
	if types := a.types(); len(types) > 0 {
		cfg.Defaults.Types = types
	}

	a.noColor = a.v.GetBool("no-color") || cfg.Defaults.NoColor || !isTerminal(a.stdout)
	debug := a.v.GetBool("debug") || cfg.Defaults.Debug
	a.observer = newObserver(a.stderr, a.v.GetString("log-level"), a.v.GetString("log-format"), debug, a.noColor)
	a.cfg = cfg
	return nil
}

// loadConfiguration reads an explicit --config strictly. A file found in a
// standard location that fails to load is reported and replaced by defaults.
func (a *app) loadConfiguration() (*config.Config, error) {
	if path := a.v.GetString("config"); path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", detector.ErrInvalidInput, err)
		}
		return cfg, nil
	}

	path := config.FindConfigFile()
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "Warning: ignoring %s: %v\n", path, err)
		return config.Default(), nil
	}
	return cfg, nil
}

// newObserver configures zerolog on w. Logs never go to stdout so output can be piped.
func newObserver(w io.Writer, level, format string, debug, noColor bool) *observability.StandardObserver {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if format == "json" {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: noColor})
	}
	logger = logger.Level(lvl).With().Timestamp().Logger()

	obsLevel := observability.ObservabilityMetrics
	if debug {
		obsLevel = observability.ObservabilityDebug
	}
	return observability.NewObserverWithLogger(obsLevel, logger)
}

func (a *app) engine() (*core.Engine, error) {
	return core.NewEngine(a.cfg, a.observer, a.engineOptions...)
}

func (a *app) language() string {
	return a.v.GetString("language")
}

// types accepts repeated flags, comma lists and MEDDOC_TYPES.
func (a *app) types() []string {
	var out []string
	for _, item := range a.v.GetStringSlice("types") {
		for _, t := range strings.Split(item, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, strings.ToUpper(t))
			}
		}
	}
	return out
}

func (a *app) format() string {
	if f := a.v.GetString("format"); f != "" {
		return f
	}
	if a.cfg != nil && a.cfg.Defaults.Format != "" {
		return a.cfg.Defaults.Format
	}
	return "text"
}

// readInput reads the document from the file argument, or stdin when the
// argument is absent or "-". Reading stops one byte past the size limit so
// the engine reports oversized input.
func (a *app) readInput(args []string) (string, error) {
	var r io.Reader = a.stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("%w: %w", detector.ErrInvalidInput, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, a.cfg.Pipeline.MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func (a *app) write(result formatters.Result, options formatters.FormatterOptions) error {
	format := a.format()
	if _, ok := formatters.Get(format); !ok {
		return detector.InvalidInputf("unsupported format %q (available: %s)", format, strings.Join(formatters.List(), ", "))
	}
	options.NoColor = a.noColor

	out, err := formatters.Export(format, result, options)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.stdout, out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
