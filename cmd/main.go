// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"meddoc-anonymizer/internal/detector"

	_ "meddoc-anonymizer/internal/formatters/json"
	_ "meddoc-anonymizer/internal/formatters/text"
	_ "meddoc-anonymizer/internal/formatters/yaml"
)

// Exit codes
const (
	exitOK           = 0
	exitFailure      = 1
	exitInvalidInput = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, detector.ErrInvalidInput), errors.Is(err, detector.ErrUnsupportedLanguage):
		return exitInvalidInput
	default:
		return exitFailure
	}
}
