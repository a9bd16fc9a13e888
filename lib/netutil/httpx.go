// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxResponseSize bounds JSON API responses. A getUpdates batch of 100
// updates is a few hundred kilobytes at most.
const MaxResponseSize int64 = 16 << 20

// ErrTooLarge is returned when a body exceeds its limit.
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("response body exceeds %d bytes", e.Limit)
}

// ReadLimited reads body, failing if it holds more than limit bytes.
// Unlike a bare io.LimitReader, truncation is an error rather than a
// silently short read.
func ReadLimited(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &ErrTooLarge{Limit: limit}
	}
	return data, nil
}

// ReadResponse reads a JSON API response body up to MaxResponseSize.
func ReadResponse(body io.Reader) ([]byte, error) {
	return ReadLimited(body, MaxResponseSize)
}

// DecodeResponse reads a JSON API response body and decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody returns up to 4 KiB of an error body for diagnostics.
// Read errors are ignored.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	return string(data)
}
