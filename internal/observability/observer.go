// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StandardObserver implements observability for all components.
// A nil *StandardObserver is valid and discards everything.
type StandardObserver struct {
	level         ObservabilityLevel
	logger        zerolog.Logger
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates an observer writing JSON lines to writer.
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	return NewObserverWithLogger(level, zerolog.New(writer).With().Timestamp().Logger())
}

// NewObserverWithLogger creates an observer on top of an existing zerolog logger.
func NewObserverWithLogger(level ObservabilityLevel, logger zerolog.Logger) *StandardObserver {
	o := &StandardObserver{
		level:  level,
		logger: logger,
	}
	if level == ObservabilityDebug {
		o.DebugObserver = &DebugObserver{StandardObserver: o}
	}
	return o
}

// Level returns the configured level.
func (o *StandardObserver) Level() ObservabilityLevel {
	if o == nil {
		return ObservabilityOff
	}
	return o.level
}

// Logger exposes the underlying logger for components that need custom events.
func (o *StandardObserver) Logger() *zerolog.Logger {
	if o == nil || o.level == ObservabilityOff {
		l := zerolog.Nop()
		return &l
	}
	return &o.logger
}

// Steps returns the step-level debug observer, nil unless the level is
// ObservabilityDebug. DebugObserver methods accept a nil receiver.
func (o *StandardObserver) Steps() *DebugObserver {
	if o == nil {
		return nil
	}
	return o.DebugObserver
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, target string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		if o == nil {
			return
		}
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Target:     target,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data. Operations are logged at info level in
// metrics mode and at debug level otherwise.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff {
		return
	}

	if data.RequestID == "" {
		data.RequestID = NewRequestID()
	}

	event := o.logger.Info()
	if !data.Success {
		event = o.logger.Warn()
	}
	event = event.
		Str("component", data.Component).
		Str("operation", data.Operation).
		Str("request_id", data.RequestID).
		Int64("duration_ms", data.DurationMs).
		Bool("success", data.Success)
	if data.Target != "" {
		event = event.Str("target", data.Target)
	}
	if data.Error != "" {
		event = event.Str("error", data.Error)
	}
	if data.ContentLength > 0 {
		event = event.Int("content_length", data.ContentLength)
	}
	if data.MatchCount > 0 {
		event = event.Int("match_count", data.MatchCount)
	}
	if len(data.Metadata) > 0 {
		event = event.Fields(data.Metadata)
	}
	event.Msg(data.Operation)
}

// Warn logs a degraded but recoverable condition.
func (o *StandardObserver) Warn(component, message string, fields map[string]interface{}) {
	if o == nil || o.level == ObservabilityOff {
		return
	}
	o.logger.Warn().Str("component", component).Fields(fields).Msg(message)
}

// Debug logs a detail that only matters when debugging.
func (o *StandardObserver) Debug(component, message string, fields map[string]interface{}) {
	if o == nil || o.level != ObservabilityDebug {
		return
	}
	o.logger.Debug().Str("component", component).Fields(fields).Msg(message)
}

// NewRequestID returns a unique identifier for one pipeline request.
func NewRequestID() string {
	return uuid.NewString()
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component     string                 `json:"component"`
	Operation     string                 `json:"operation"`
	RequestID     string                 `json:"request_id"`
	Target        string                 `json:"target,omitempty"`
	DurationMs    int64                  `json:"duration_ms,omitempty"`
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	ContentLength int                    `json:"content_length,omitempty"`
	MatchCount    int                    `json:"match_count,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}
