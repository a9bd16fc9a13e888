// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
	"time"
)

// APIError is a failed Bot API call. Callers extract it with
// errors.As:
//
//	var apiError *APIError
//	if errors.As(err, &apiError) && apiError.RetryAfter > 0 { ... }
type APIError struct {
	// Method is the Bot API method that failed.
	Method string
	// Code is Telegram's error_code, which mirrors the HTTP status.
	Code int
	// Description is Telegram's human-readable explanation.
	Description string
	// RetryAfter is the flood-control wait, zero when absent.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram: %s: %d %s (retry after %s)", e.Method, e.Code, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram: %s: %d %s", e.Method, e.Code, e.Description)
}

// Error codes the bot reacts to.
const (
	ErrCodeBadRequest      = 400
	ErrCodeUnauthorized    = 401
	ErrCodeForbidden       = 403
	ErrCodeNotFound        = 404
	ErrCodeConflict        = 409
	ErrCodeTooManyRequests = 429
)

// IsAPIError reports whether err is an *APIError with the given code.
func IsAPIError(err error, code int) bool {
	var apiError *APIError
	if errors.As(err, &apiError) {
		return apiError.Code == code
	}
	return false
}

// RetryAfter returns the flood-control wait carried by err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var apiError *APIError
	if errors.As(err, &apiError) && apiError.RetryAfter > 0 {
		return apiError.RetryAfter, true
	}
	return 0, false
}
