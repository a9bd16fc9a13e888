// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds the bot token and the age identity that
// unseals it in memory that is locked against swap, excluded from core
// dumps, and zeroed on Close.
//
// [Buffer] memory comes from an anonymous mmap outside the Go heap, so
// the garbage collector never copies it. [ReadFile] and [FromEnv] are
// the two ways a secret enters the process.
package secret
