// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

// LowStockThreshold is the largest quantity still labelled Low.
// Anything above it is Plentiful.
const LowStockThreshold = 5

// Status is the three-tier availability label shown next to a
// product's quantity.
type Status int

const (
	OutOfStock Status = iota
	Low
	Plentiful
)

// StatusOf derives the label for quantity: above LowStockThreshold is
// Plentiful, 1 through LowStockThreshold is Low, and zero (or, for a
// corrupt input, anything below) is OutOfStock.
func StatusOf(quantity int64) Status {
	switch {
	case quantity > LowStockThreshold:
		return Plentiful
	case quantity > 0:
		return Low
	default:
		return OutOfStock
	}
}

func (s Status) String() string {
	switch s {
	case Plentiful:
		return "plentiful"
	case Low:
		return "low"
	default:
		return "out of stock"
	}
}
