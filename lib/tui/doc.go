// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the look of the stockroom terminal console: the
// color theme, stock status badges, the transcript scrollbar, and
// ANSI-aware line fitting.
package tui
