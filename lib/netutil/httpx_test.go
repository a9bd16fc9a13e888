// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"strings"
	"testing"
)

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(strings.NewReader("12345"), 5)
	if err != nil || string(data) != "12345" {
		t.Fatalf("ReadLimited at limit = %q, %v", data, err)
	}

	_, err = ReadLimited(strings.NewReader("123456"), 5)
	var tooLarge *ErrTooLarge
	if !errors.As(err, &tooLarge) || tooLarge.Limit != 5 {
		t.Fatalf("ReadLimited over limit = %v", err)
	}
}

func TestDecodeResponse(t *testing.T) {
	var value struct {
		OK bool `json:"ok"`
	}
	if err := DecodeResponse(strings.NewReader(`{"ok":true}`), &value); err != nil {
		t.Fatal(err)
	}
	if !value.OK {
		t.Error("ok not decoded")
	}
	if err := DecodeResponse(strings.NewReader(`{`), &value); err == nil {
		t.Error("truncated JSON accepted")
	}
}

func TestErrorBodyTruncates(t *testing.T) {
	body := ErrorBody(strings.NewReader(strings.Repeat("x", 10000)))
	if len(body) != 4096 {
		t.Errorf("len = %d, want 4096", len(body))
	}
}
