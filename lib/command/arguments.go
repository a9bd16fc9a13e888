// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strconv"
	"strings"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// MaxQuantity bounds a single add or sell.
const MaxQuantity = 1_000_000_000

// Adjustment is the argument of an add or sell command.
type Adjustment struct {
	// Product is the canonical product name.
	Product string

	// Quantity is the positive amount to add or sell.
	Quantity int64
}

// Delta returns the signed ledger delta for command: positive for add,
// negative for sell.
func (a Adjustment) Delta(command string) int64 {
	if command == Sell {
		return -a.Quantity
	}
	return a.Quantity
}

// ParseAdjustment parses "<product> - <quantity>". The quantity is the
// text after the last "-", so product names may themselves contain
// hyphens ("T-shirt - 5"). A product part that still ends in "-" means
// the quantity was written with a sign ("T-shirt - -5") and is
// rejected.
func ParseAdjustment(command, arguments string) (Adjustment, error) {
	trimmed := strings.TrimSpace(arguments)
	if trimmed == "" {
		return Adjustment{}, malformed(command, "missing product and quantity")
	}

	separator := strings.LastIndex(trimmed, "-")
	if separator < 0 {
		return Adjustment{}, malformed(command, `missing " - " between product and quantity`)
	}

	product := inventory.CanonicalName(trimmed[:separator])
	if product == "" {
		return Adjustment{}, malformed(command, "missing product name")
	}
	if strings.HasSuffix(product, "-") {
		return Adjustment{}, malformed(command, "quantity must be a positive whole number")
	}

	quantity, reason := parseQuantity(strings.TrimSpace(trimmed[separator+1:]))
	if reason != "" {
		return Adjustment{}, malformed(command, reason)
	}

	return Adjustment{Product: product, Quantity: quantity}, nil
}

func parseQuantity(text string) (int64, string) {
	if text == "" {
		return 0, "missing quantity"
	}
	if !allDigits(text) {
		return 0, "quantity must be a positive whole number"
	}
	quantity, err := strconv.ParseInt(text, 10, 64)
	if err != nil || quantity > MaxQuantity {
		return 0, "quantity must be at most " + strconv.Itoa(MaxQuantity)
	}
	if quantity == 0 {
		return 0, "quantity must be greater than zero"
	}
	return quantity, ""
}

// ParseOperatorID parses an operator identity sent as follow-up input:
// one or more ASCII digits with optional surrounding whitespace.
func ParseOperatorID(text string) (authorization.OperatorID, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !allDigits(trimmed) {
		return 0, malformed(OperatorIDRequest, "expected a numeric user ID")
	}
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, malformed(OperatorIDRequest, "user ID is out of range")
	}
	return authorization.OperatorID(value), nil
}

// ParseProductArgument parses the single product-name argument of
// update_image.
func ParseProductArgument(command, arguments string) (string, error) {
	product := inventory.CanonicalName(arguments)
	if product == "" {
		return "", malformed(command, "missing product name")
	}
	return product, nil
}

// ParseSearch parses the argument of find.
func ParseSearch(arguments string) (string, error) {
	query := strings.Join(strings.Fields(arguments), " ")
	if query == "" {
		return "", malformed(Find, "missing search text")
	}
	return query, nil
}

func allDigits(text string) bool {
	for index := 0; index < len(text); index++ {
		if text[index] < '0' || text[index] > '9' {
			return false
		}
	}
	return text != ""
}
