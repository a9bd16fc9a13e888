// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"fmt"
)

// Error codes carried in [Response.Code].
const (
	CodeMalformed         = "malformed"
	CodeInsufficientStock = "insufficient_stock"
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeInternal          = "internal"
)

// ActionError is a handler failure with a code the client can branch
// on.
type ActionError struct {
	Code string
	Err  error
}

func (e *ActionError) Error() string { return e.Err.Error() }

func (e *ActionError) Unwrap() error { return e.Err }

// Errorf builds an ActionError with a formatted message.
func Errorf(code, format string, args ...any) error {
	return &ActionError{Code: code, Err: fmt.Errorf(format, args...)}
}

// WithCode wraps err so the response carries code.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Code: code, Err: err}
}

// ServiceError is returned by [Client.Call] when the server answers
// ok=false.
type ServiceError struct {
	Action  string
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

// IsCode reports whether err is a ServiceError with the given code.
func IsCode(err error, code string) bool {
	var serviceError *ServiceError
	return errors.As(err, &serviceError) && serviceError.Code == code
}
