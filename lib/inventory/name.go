// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import "strings"

// CanonicalName returns the ledger key for a product name: leading and
// trailing whitespace removed and every interior whitespace run
// replaced by a single space. Returns "" for names that are blank.
//
//	CanonicalName("  Round   Neck ") == "Round Neck"
func CanonicalName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
