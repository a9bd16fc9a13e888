// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package inventory holds the stock ledger: the mapping from product
// name to on-hand quantity.
//
// The Ledger is the only writer of quantities. Every successful Adjust
// is written through to a [Store] before the in-memory mapping changes,
// so a failed write leaves both the durable snapshot and the ledger at
// their previous values. Quantities never go negative: an adjustment
// that would drive a product below zero fails with an
// [InsufficientStockError] and changes nothing.
//
// Product names are compared after [CanonicalName] normalization
// (surrounding whitespace trimmed, interior runs of whitespace
// collapsed to a single space). Case is significant.
package inventory
