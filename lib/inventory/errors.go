// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientStock matches any *InsufficientStockError via
	// errors.Is.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")

	// ErrInvalidAdjustment is returned for a zero delta or an empty
	// product name. The command parser rejects both before they reach
	// the ledger; this guards callers that bypass it (the control
	// socket, tests).
	ErrInvalidAdjustment = errors.New("inventory: invalid adjustment")

	// ErrQuantityOverflow is returned when an adjustment would exceed
	// the range of int64.
	ErrQuantityOverflow = errors.New("inventory: quantity overflow")
)

// InsufficientStockError reports a sale larger than the quantity on
// hand. The ledger is unchanged when this error is returned.
type InsufficientStockError struct {
	Product   string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for %q: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

// Is reports whether target is ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
