// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"meddoc-anonymizer/internal/config"
	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/model"
	"meddoc-anonymizer/internal/observability"
	"meddoc-anonymizer/internal/parallel"
	"meddoc-anonymizer/internal/redactors"
	"meddoc-anonymizer/internal/redactors/plaintext"
	"meddoc-anonymizer/internal/resilience"
	"meddoc-anonymizer/internal/resolver"
	"meddoc-anonymizer/internal/validators"
	"meddoc-anonymizer/internal/validators/personname"
)

var tracer = otel.Tracer("meddoc-anonymizer/internal/core")

// Detection is the outcome of the detect stage: disjoint spans in start order.
type Detection struct {
	RequestID string              `json:"request_id" yaml:"request_id"`
	Language  string              `json:"language" yaml:"language"`
	Spans     []detector.Finding  `json:"spans" yaml:"spans"`
	Warnings  []redactors.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Document is one entry of a batch request.
type Document struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// BatchResult pairs a document with its report or error.
type BatchResult struct {
	DocumentID string                  `json:"document_id" yaml:"document_id"`
	Report     *redactors.EntityReport `json:"report,omitempty" yaml:"report,omitempty"`
	Error      error                   `json:"-" yaml:"-"`
}

// Engine runs the detect, resolve and rewrite pipeline. It is built once and
// is safe for concurrent use.
type Engine struct {
	cfg       *config.Config
	registry  *validators.Registry
	extractor model.Extractor
	rewriter  *plaintext.Rewriter
	operators redactors.OperatorConfig
	allow     map[string]bool
	observer  *observability.StandardObserver
}

// Option customizes an Engine.
type Option func(*Engine)

// WithExtractor sets the model collaborator, replacing the configured one.
func WithExtractor(x model.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithRegistry uses a prebuilt, sealed registry instead of BuildRegistry.
func WithRegistry(r *validators.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// NewEngine builds the registry, the rewrite engine and, when the model is
// enabled in cfg, the HTTP model client. Pass nil for cfg to use defaults.
func NewEngine(cfg *config.Config, observer *observability.StandardObserver, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", detector.ErrInvalidInput, err)
	}

	ops, err := cfg.OperatorConfig()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		rewriter:  plaintext.NewRewriter(observer),
		operators: ops,
		allow:     make(map[string]bool, len(cfg.AllowList)),
		observer:  observer,
	}
	for _, s := range cfg.AllowList {
		e.allow[s] = true
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		if e.registry, err = BuildRegistry(cfg, observer); err != nil {
			return nil, err
		}
	}
	if !e.registry.Sealed() {
		return nil, detector.Internalf("engine requires a sealed registry")
	}

	if e.extractor == nil && cfg.Model.Enabled {
		clientCfg := model.DefaultClientConfig(cfg.Model.Endpoint)
		clientCfg.Timeout = cfg.Model.Timeout
		clientCfg.RequestsPerSecond = cfg.Model.RequestsPerSecond
		clientCfg.Burst = cfg.Model.Burst
		clientCfg.Retry.MaxRetries = cfg.Model.MaxRetries
		client, err := model.NewClient(clientCfg, observer)
		if err != nil {
			return nil, err
		}
		e.extractor = client
	}
	return e, nil
}

// Registry returns the engine's sealed detector registry.
func (e *Engine) Registry() *validators.Registry {
	return e.registry
}

// Operators returns the configured operator settings.
func (e *Engine) Operators() redactors.OperatorConfig {
	return e.operators
}

// Detect validates text, resolves the language, consults the model, runs
// every detector and returns the accepted, non-overlapping spans.
// requested limits the entity types; none means all.
func (e *Engine) Detect(ctx context.Context, text, language string, requested ...string) (*Detection, error) {
	ctx, span := tracer.Start(ctx, "pipeline.detect")
	defer span.End()

	detection, err := e.detect(ctx, observability.NewRequestID(), text, language, detector.ParseTypes(requested))
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("pipeline.language", detection.Language),
		attribute.Int("pipeline.entities", len(detection.Spans)),
		attribute.Int("pipeline.warnings", len(detection.Warnings)),
	)
	return detection, nil
}

func (e *Engine) detect(ctx context.Context, requestID, text, language string, requested detector.TypeSet) (*Detection, error) {
	finishTiming := e.observer.StartTiming("engine", "detect", requestID)

	if err := e.validateText(text); err != nil {
		finishTiming(false, map[string]interface{}{"error": "invalid_input"})
		return nil, err
	}

	detection := &Detection{RequestID: requestID}
	lang, warning, err := e.resolveLanguage(language)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": "unsupported_language"})
		return nil, err
	}
	detection.Language = lang
	if warning != nil {
		detection.Warnings = append(detection.Warnings, *warning)
		e.observer.Warn("engine", "language fallback", map[string]interface{}{
			"request_id": requestID,
			"requested":  language,
			"language":   lang,
		})
	}

	indexed := detector.NewText(text)

	steps := e.observer.Steps()

	var modelSpans []detector.ModelSpan
	if e.extractor != nil && requested.Allows(personname.EntityType) {
		done := steps.StartStep("engine", "model_extract", requestID)
		modelSpans, err = e.extractor.ExtractEntities(ctx, text, lang)
		done(err == nil, fmt.Sprintf("%d spans", len(modelSpans)))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				finishTiming(false, map[string]interface{}{"cancelled": true})
				return nil, ctxErr
			}
			modelSpans = nil
			detection.Warnings = append(detection.Warnings, redactors.Warning{
				Code:    redactors.WarningModelUnavailable,
				Message: "entity model unavailable, continuing with pattern detectors only",
			})
			e.observer.Warn("engine", "model unavailable", map[string]interface{}{
				"request_id": requestID,
				"error_type": resilience.ClassifyError(err).Type.String(),
			})
		}
	}

	candidates, failures, err := e.registry.Run(ctx, indexed, lang, requested, modelSpans)
	if err != nil {
		finishTiming(false, nil)
		return nil, err
	}
	for _, f := range failures {
		detection.Warnings = append(detection.Warnings, redactors.Warning{
			Code:     redactors.WarningDetectorFailure,
			Message:  f.Err.Error(),
			Detector: f.Detector,
		})
	}

	kept := make([]detector.Finding, 0, len(candidates))
	belowThreshold, allowed := 0, 0
	for _, c := range candidates {
		if c.Confidence < e.cfg.ThresholdFor(c.EntityType) {
			belowThreshold++
			continue
		}
		if e.allow[c.Text] {
			allowed++
			continue
		}
		kept = append(kept, c)
	}
	steps.LogMetric("engine", "below_threshold", belowThreshold)
	steps.LogMetric("engine", "allow_listed", allowed)

	done := steps.StartStep("engine", "resolve", requestID)
	detection.Spans = resolver.Resolve(kept)
	done(true, fmt.Sprintf("%d candidates, %d accepted", len(kept), len(detection.Spans)))
	if detection.Spans == nil {
		detection.Spans = []detector.Finding{}
	}

	finishTiming(true, map[string]interface{}{
		"language":   lang,
		"candidates": len(candidates),
		"entities":   len(detection.Spans),
		"warnings":   len(detection.Warnings),
	})
	return detection, nil
}

// Anonymize rewrites text using caller-supplied spans. Spans must be inside
// the text and disjoint; a malformed request wraps detector.ErrInvalidInput.
// A nil ops uses the configured operators.
func (e *Engine) Anonymize(ctx context.Context, text string, spans []detector.Finding, ops *redactors.OperatorConfig) (*redactors.EntityReport, error) {
	_, span := tracer.Start(ctx, "pipeline.anonymize")
	defer span.End()

	start := time.Now()
	if err := e.validateText(text); err != nil {
		recordError(span, err)
		return nil, err
	}
	indexed := detector.NewText(text)
	if err := resolver.Validate(spans, indexed.Len()); err != nil {
		err = detector.InvalidInputf("span request: %v", err)
		recordError(span, err)
		return nil, err
	}

	report, err := e.rewrite(indexed, spans, ops)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	report.RequestID = observability.NewRequestID()
	report.Statistics.ProcessingTimeMS = time.Since(start).Milliseconds()

	span.SetAttributes(attribute.Int("pipeline.entities", report.Statistics.TotalEntities))
	return report, nil
}

// Process detects and anonymizes text with the configured operators. The
// report carries the detection warnings.
func (e *Engine) Process(ctx context.Context, text, language string, requested ...string) (*redactors.EntityReport, error) {
	ctx, span := tracer.Start(ctx, "pipeline.process")
	defer span.End()

	report, err := e.process(ctx, text, language, detector.ParseTypes(requested), nil)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("pipeline.language", report.Language),
		attribute.Int("pipeline.entities", report.Statistics.TotalEntities),
		attribute.Int("pipeline.warnings", len(report.Warnings)),
	)
	return report, nil
}

// ProcessWith is Process with explicit operators.
func (e *Engine) ProcessWith(ctx context.Context, text, language string, ops redactors.OperatorConfig, requested ...string) (*redactors.EntityReport, error) {
	ctx, span := tracer.Start(ctx, "pipeline.process")
	defer span.End()

	report, err := e.process(ctx, text, language, detector.ParseTypes(requested), &ops)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("pipeline.entities", report.Statistics.TotalEntities))
	return report, nil
}

func (e *Engine) process(ctx context.Context, text, language string, requested detector.TypeSet, ops *redactors.OperatorConfig) (*redactors.EntityReport, error) {
	start := time.Now()
	requestID := observability.NewRequestID()

	detection, err := e.detect(ctx, requestID, text, language, requested)
	if err != nil {
		return nil, err
	}

	report, err := e.rewrite(detector.NewText(text), detection.Spans, ops)
	if err != nil {
		return nil, err
	}
	report.RequestID = requestID
	report.Language = detection.Language
	report.Warnings = detection.Warnings
	report.Statistics.ProcessingTimeMS = time.Since(start).Milliseconds()
	return report, nil
}

func (e *Engine) rewrite(text *detector.Text, spans []detector.Finding, ops *redactors.OperatorConfig) (*redactors.EntityReport, error) {
	operators := e.operators
	if ops != nil {
		operators = *ops
	}
	return e.rewriter.Rewrite(text, spans, operators)
}

// ProcessBatch processes documents on a bounded worker pool and returns one
// result per document in input order. Per-document failures are reported in
// BatchResult.Error. More than batch.max_size documents is rejected.
func (e *Engine) ProcessBatch(ctx context.Context, docs []Document) ([]BatchResult, error) {
	if len(docs) > e.cfg.Batch.MaxSize {
		return nil, detector.InvalidInputf("batch of %d documents exceeds limit of %d", len(docs), e.cfg.Batch.MaxSize)
	}

	batchID := observability.NewRequestID()
	jobs := make([]*parallel.Job, len(docs))
	for i, d := range docs {
		id := d.ID
		if id == "" {
			id = fmt.Sprintf("doc-%d", i+1)
		}
		jobs[i] = &parallel.Job{JobID: fmt.Sprintf("%s-%d", batchID, i), DocumentID: id, Text: d.Text, Language: d.Language}
	}

	processor := parallel.NewParallelProcessor(e.cfg.Batch.Workers, func(ctx context.Context, job *parallel.Job) (*redactors.EntityReport, error) {
		return e.Process(ctx, job.Text, job.Language)
	}, e.observer)

	results, _, err := processor.ProcessDocuments(ctx, jobs, nil)
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{DocumentID: r.DocumentID, Report: r.Report, Error: r.Error}
	}
	return out, err
}

func (e *Engine) validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return detector.InvalidInputf("empty text")
	}
	if int64(len(text)) > e.cfg.Pipeline.MaxInputBytes {
		return detector.InvalidInputf("input of %d bytes exceeds limit of %d bytes", len(text), e.cfg.Pipeline.MaxInputBytes)
	}
	if !utf8.ValidString(text) {
		return detector.InvalidInputf("text is not valid UTF-8")
	}
	return nil
}

// resolveLanguage returns the language to run, and a warning when the
// requested one was replaced by the default.
func (e *Engine) resolveLanguage(language string) (string, *redactors.Warning, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	def := e.cfg.Pipeline.DefaultLanguage

	if lang == "" {
		if def == "" {
			return "", nil, fmt.Errorf("%w: %w: no language given and no default configured", detector.ErrInvalidInput, detector.ErrUnsupportedLanguage)
		}
		return def, nil, nil
	}
	if e.cfg.LanguageAllowed(lang) {
		return lang, nil, nil
	}
	if def == "" {
		return "", nil, fmt.Errorf("%w: %w: %q", detector.ErrInvalidInput, detector.ErrUnsupportedLanguage, lang)
	}
	return def, &redactors.Warning{
		Code:    redactors.WarningLanguageFallback,
		Message: fmt.Sprintf("language %q is not supported, using %q", lang, def),
	}, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, errorKind(err))
}

// errorKind names an error without its message, which may quote input text.
func errorKind(err error) string {
	switch {
	case errors.Is(err, detector.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, detector.ErrInternal):
		return "internal"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
