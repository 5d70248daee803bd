// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown            ErrorType = iota
	ErrorTypeTransient                    // Temporary network issues, rate limits
	ErrorTypePermanent                    // Invalid credentials, permissions
	ErrorTypeTimeout                      // Request timeouts
	ErrorTypeRateLimit                    // API rate limiting
	ErrorTypeQuotaExceeded                // Service quotas exceeded
	ErrorTypeServiceUnavailable           // Service downtime
	ErrorTypeInvalidInput                 // Bad input data
	ErrorTypeResourceNotFound             // Missing resources
)

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// ClassifyError categorizes an error for appropriate handling
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	// Check if already classified
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	// Cancellation is the caller's decision, never retried
	if errors.Is(err, context.Canceled) {
		return &ClassifiedError{Original: err, Type: ErrorTypePermanent, Message: err.Error(), Retryable: false}
	}

	// Retrying against an open breaker only adds rejections
	if errors.Is(err, ErrOpen) {
		return &ClassifiedError{Original: err, Type: ErrorTypeServiceUnavailable, Message: err.Error(), Retryable: false}
	}

	errStr := strings.ToLower(err.Error())

	// Timeout errors (transient)
	if isTimeoutError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTimeout,
			Message:   fmt.Sprintf("Timeout error: %v", err),
			Retryable: true,
		}
	}

	// Network-related errors (transient)
	if isNetworkError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTransient,
			Message:   fmt.Sprintf("Network error: %v", err),
			Retryable: true,
		}
	}

	// Message patterns reported by the model service and HTTP stack
	switch {
	case strings.Contains(errStr, "too many requests") || strings.Contains(errStr, "rate limit"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeRateLimit,
			Message:   fmt.Sprintf("Rate limit exceeded: %v", err),
			Retryable: true,
		}

	case strings.Contains(errStr, "service unavailable") || strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "connection reset"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeServiceUnavailable,
			Message:   fmt.Sprintf("Service unavailable: %v", err),
			Retryable: true,
		}

	case strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "forbidden"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypePermanent,
			Message:   fmt.Sprintf("Authentication/authorization error: %v", err),
			Retryable: false,
		}

	case strings.Contains(errStr, "malformed") || strings.Contains(errStr, "bad request"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeInvalidInput,
			Message:   fmt.Sprintf("Invalid input: %v", err),
			Retryable: false,
		}
	}

	// Default to unknown, non-retryable
	return &ClassifiedError{
		Original:  err,
		Type:      ErrorTypeUnknown,
		Message:   fmt.Sprintf("Unknown error: %v", err),
		Retryable: false,
	}
}

// isNetworkError checks if an error is network-related
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	// Check for net.Error interface
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Check for specific network error types
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// Check for DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	// Check for connection errors
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	return false
}

// isTimeoutError checks if an error is timeout-related
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	// Check for net.Error timeout
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Check error message for timeout indicators
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context deadline exceeded")
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}

// ClassifyHTTPStatus classifies a non-2xx response from an HTTP service.
// 408, 429 and 5xx responses are retryable; other statuses are not.
func ClassifyHTTPStatus(status int, cause error) *ClassifiedError {
	msg := fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
	switch {
	case status == http.StatusTooManyRequests:
		return &ClassifiedError{Original: cause, Type: ErrorTypeRateLimit, Message: msg, Retryable: true}
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return &ClassifiedError{Original: cause, Type: ErrorTypeTimeout, Message: msg, Retryable: true}
	case status >= 500:
		return &ClassifiedError{Original: cause, Type: ErrorTypeServiceUnavailable, Message: msg, Retryable: true}
	case status == http.StatusNotFound:
		return &ClassifiedError{Original: cause, Type: ErrorTypeResourceNotFound, Message: msg, Retryable: false}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusRequestEntityTooLarge:
		return &ClassifiedError{Original: cause, Type: ErrorTypeInvalidInput, Message: msg, Retryable: false}
	default:
		return &ClassifiedError{Original: cause, Type: ErrorTypePermanent, Message: msg, Retryable: false}
	}
}
