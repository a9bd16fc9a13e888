// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Fatal writes "error: err" to stderr and exits. An error carrying an
// ExitCode method chooses the exit status; its message, if any, has
// already been shown and is not repeated.
func Fatal(err error) {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		if message := err.Error(); message != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", message)
		}
		os.Exit(coded.ExitCode())
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// SignalContext returns a context cancelled by SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
