// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds entrypoint helpers shared by the stockroom
// binaries: the signal-aware root context and fatal error reporting
// for the window before a structured logger exists.
package process
