// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
)

// ErrMalformedRequest matches any *MalformedRequestError via errors.Is.
var ErrMalformedRequest = errors.New("malformed request")

// MalformedRequestError describes input that could not be parsed.
// Example is a well-formed request of the same kind, suitable for
// showing to the operator.
type MalformedRequestError struct {
	// Command is the request kind: a command name such as "add", or
	// "operator id" for admin follow-up input.
	Command string
	Reason  string
	Example string
}

func (e *MalformedRequestError) Error() string {
	if e.Example == "" {
		return fmt.Sprintf("malformed %s request: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("malformed %s request: %s (example: %s)", e.Command, e.Reason, e.Example)
}

// Is reports whether target is ErrMalformedRequest.
func (e *MalformedRequestError) Is(target error) bool {
	return target == ErrMalformedRequest
}

func malformed(command, reason string) *MalformedRequestError {
	return &MalformedRequestError{
		Command: command,
		Reason:  reason,
		Example: Example(command),
	}
}
