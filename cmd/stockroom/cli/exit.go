// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

// ExitError ends the process with Code without printing anything
// further. Commands return it after writing their own output, for
// example when a requested product is out of stock.
type ExitError struct {
	Code int
}

// Error is empty so process.Fatal prints nothing.
func (e *ExitError) Error() string { return "" }

// ExitCode returns the exit status.
func (e *ExitError) ExitCode() int { return e.Code }
