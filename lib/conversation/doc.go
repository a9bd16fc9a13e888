// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package conversation tracks the one piece of multi-step state in the
// bot: an operator who pressed "grant operator" or "revoke operator"
// and has not yet sent the target identity.
//
// The store is memory only. A restart drops every pending action,
// which returns each operator to idle; the workflow is a short human
// exchange, not a durable task.
package conversation
