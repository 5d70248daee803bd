// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects a request before any detector runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedLanguage is reported when a language is not configured.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrModelUnavailable marks a failed or timed out model collaborator call.
	ErrModelUnavailable = errors.New("external model unavailable")

	// ErrInternal marks a broken pipeline invariant, such as an accepted span
	// outside the text bounds.
	ErrInternal = errors.New("internal invariant violation")
)

// DetectorFailure records an error or panic raised by one detector.
type DetectorFailure struct {
	Detector string
	Err      error
}

func (e *DetectorFailure) Error() string {
	return fmt.Sprintf("detector %s failed: %v", e.Detector, e.Err)
}

func (e *DetectorFailure) Unwrap() error {
	return e.Err
}

// InvalidInputf builds an error wrapping ErrInvalidInput.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Internalf builds an error wrapping ErrInternal.
func Internalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}
