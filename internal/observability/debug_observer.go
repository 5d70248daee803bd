// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"
)

// DebugObserver provides detailed step-by-step debugging
type DebugObserver struct {
	*StandardObserver
}

// StartStep begins a processing step and returns its completion func.
func (d *DebugObserver) StartStep(component, step, target string) func(success bool, details string) {
	start := time.Now()
	if d == nil {
		return func(bool, string) {}
	}

	d.logger.Debug().
		Str("component", component).
		Str("step", step).
		Str("target", target).
		Msg("step started")

	return func(success bool, details string) {
		event := d.logger.Debug()
		if !success {
			event = d.logger.Warn()
		}
		event.
			Str("component", component).
			Str("step", step).
			Str("target", target).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Bool("success", success).
			Str("details", details).
			Msg("step completed")
	}
}

// LogDetail logs a detail within the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	if d == nil {
		return
	}
	d.logger.Debug().Str("component", component).Msg(detail)
}

// LogMetric logs a metric value
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	if d == nil {
		return
	}
	d.logger.Debug().Str("component", component).Interface(metric, value).Msg("metric")
}
