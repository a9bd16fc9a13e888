// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP response reads. A misbehaving server
// cannot make the bot allocate more than the caller's limit.
package netutil
