// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [SocketDir] creates a short directory under /tmp for Unix sockets,
// whose paths are limited to 108 bytes; t.TempDir() paths can exceed
// that.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout guard so tests fail instead of hanging. They are
// the only place tests use a real wall-clock timeout; everything else
// takes a clock.Fake.
//
// All helpers call t.Fatalf on failure.
package testutil
