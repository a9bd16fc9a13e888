// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"
)

type recorder struct {
	failed  bool
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}
}

func TestRequireClosedTimesOut(t *testing.T) {
	r := &recorder{}
	RequireClosed(r, make(chan struct{}), time.Millisecond, "never closes %d", 1)
	if !r.failed {
		t.Fatal("RequireClosed did not fail")
	}
	if r.message != "timed out after 1ms waiting for close: never closes 1" {
		t.Errorf("message = %q", r.message)
	}
}

func TestRequireSend(t *testing.T) {
	ch := make(chan string, 1)
	RequireSend(t, ch, "hello", time.Second)
	if got := <-ch; got != "hello" {
		t.Errorf("received %q", got)
	}
}

func TestSocketDirIsShort(t *testing.T) {
	directory := SocketDir(t)
	if len(directory) > 40 {
		t.Errorf("socket dir %q is too long for a Unix socket path", directory)
	}
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		t.Errorf("socket dir not created: %v", err)
	}
}
