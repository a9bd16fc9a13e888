// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFromBytesZeroesSource(t *testing.T) {
	source := []byte("123456:telegram-token")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	for index, value := range source {
		if value != 0 {
			t.Fatalf("source[%d] = %d, want 0", index, value)
		}
	}
	if buffer.String() != "123456:telegram-token" {
		t.Errorf("String() = %q", buffer.String())
	}
	if !buffer.Equal([]byte("123456:telegram-token")) {
		t.Error("Equal returned false for the same secret")
	}
	if buffer.Equal([]byte("123456:other")) {
		t.Error("Equal returned true for a different secret")
	}
}

func TestCloseIsIdempotentAndReadPanics(t *testing.T) {
	buffer, err := New(16)
	if err != nil {
		t.Fatal(err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("Bytes after Close did not panic")
		}
	}()
	buffer.Bytes()
}

func TestEmptyInputs(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("New(0) succeeded")
	}
	if _, err := NewFromBytes(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("NewFromBytes(nil) = %v, want ErrEmpty", err)
	}
}

func TestReadFileTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  abc:def \n"), 0600); err != nil {
		t.Fatal(err)
	}
	buffer, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer buffer.Close()
	if buffer.String() != "abc:def" {
		t.Errorf("ReadFile = %q", buffer.String())
	}
}

func TestReadFileBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(" \n\t"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); !errors.Is(err, ErrEmpty) {
		t.Errorf("ReadFile(blank) = %v, want ErrEmpty", err)
	}
}

func TestFromEnvUnsets(t *testing.T) {
	t.Setenv("STOCKROOM_TEST_TOKEN", "42:secret")
	buffer, err := FromEnv("STOCKROOM_TEST_TOKEN")
	if err != nil {
		t.Fatal(err)
	}
	defer buffer.Close()
	if buffer.String() != "42:secret" {
		t.Errorf("FromEnv = %q", buffer.String())
	}
	if _, ok := os.LookupEnv("STOCKROOM_TEST_TOKEN"); ok {
		t.Error("variable still set after FromEnv")
	}
	if _, err := FromEnv("STOCKROOM_TEST_TOKEN"); err == nil {
		t.Error("FromEnv on unset variable succeeded")
	}
}
