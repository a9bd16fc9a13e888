// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/stockroom/lib/authorization"
)

func TestParseAdjustment(t *testing.T) {
	tests := []struct {
		name      string
		arguments string
		product   string
		quantity  int64
	}{
		{name: "spaced separator", arguments: "T-shirt - 5", product: "T-shirt", quantity: 5},
		{name: "tight separator", arguments: "Formal-3", product: "Formal", quantity: 3},
		{name: "multi-word product", arguments: "  Round   Neck  -  12 ", product: "Round Neck", quantity: 12},
		{name: "hyphenated product", arguments: "V-Neck - 1", product: "V-Neck", quantity: 1},
		{name: "leading zeros", arguments: "Casual - 007", product: "Casual", quantity: 7},
		{name: "upper bound", arguments: "Casual - 1000000000", product: "Casual", quantity: MaxQuantity},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			adjustment, err := ParseAdjustment(Add, test.arguments)
			if err != nil {
				t.Fatalf("ParseAdjustment(%q): %v", test.arguments, err)
			}
			if adjustment.Product != test.product {
				t.Errorf("product = %q, want %q", adjustment.Product, test.product)
			}
			if adjustment.Quantity != test.quantity {
				t.Errorf("quantity = %d, want %d", adjustment.Quantity, test.quantity)
			}
		})
	}
}

func TestParseAdjustmentRejects(t *testing.T) {
	tests := []struct {
		name      string
		arguments string
		reason    string
	}{
		{name: "empty", arguments: "   ", reason: "missing product and quantity"},
		{name: "no separator", arguments: "Formal 5", reason: "missing"},
		{name: "no product", arguments: " - 5", reason: "missing product name"},
		{name: "no quantity", arguments: "Formal - ", reason: "missing quantity"},
		{name: "zero", arguments: "Formal - 0", reason: "greater than zero"},
		{name: "negative", arguments: "T-shirt - -5", reason: "positive whole number"},
		{name: "fraction", arguments: "Formal - 1.5", reason: "positive whole number"},
		{name: "words", arguments: "Formal - five", reason: "positive whole number"},
		{name: "plus sign", arguments: "Formal - +5", reason: "positive whole number"},
		{name: "too large", arguments: "Formal - 1000000001", reason: "at most"},
		{name: "int64 overflow", arguments: "Formal - 99999999999999999999", reason: "at most"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseAdjustment(Sell, test.arguments)
			var malformedErr *MalformedRequestError
			if !errors.As(err, &malformedErr) {
				t.Fatalf("ParseAdjustment(%q) error = %v, want MalformedRequestError", test.arguments, err)
			}
			if !strings.Contains(malformedErr.Reason, test.reason) {
				t.Errorf("reason = %q, want it to contain %q", malformedErr.Reason, test.reason)
			}
			if malformedErr.Command != Sell {
				t.Errorf("command = %q, want %q", malformedErr.Command, Sell)
			}
			if malformedErr.Example != "/sell T-shirt - 2" {
				t.Errorf("example = %q", malformedErr.Example)
			}
			if !errors.Is(err, ErrMalformedRequest) {
				t.Error("errors.Is(err, ErrMalformedRequest) = false")
			}
		})
	}
}

func TestAdjustmentDelta(t *testing.T) {
	adjustment := Adjustment{Product: "Formal", Quantity: 4}
	if got := adjustment.Delta(Add); got != 4 {
		t.Errorf("Delta(add) = %d", got)
	}
	if got := adjustment.Delta(Sell); got != -4 {
		t.Errorf("Delta(sell) = %d", got)
	}
}

func TestParseOperatorID(t *testing.T) {
	valid := map[string]authorization.OperatorID{
		"200":                 200,
		" 0 ":                 0,
		"9223372036854775807": 9223372036854775807,
	}
	for input, want := range valid {
		got, err := ParseOperatorID(input)
		if err != nil {
			t.Errorf("ParseOperatorID(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseOperatorID(%q) = %d, want %d", input, got, want)
		}
	}

	for _, input := range []string{"", "abc", "-5", "12a", "1 2", "٣", "9223372036854775808"} {
		if _, err := ParseOperatorID(input); !errors.Is(err, ErrMalformedRequest) {
			t.Errorf("ParseOperatorID(%q) error = %v, want malformed", input, err)
		}
	}
}

func TestParseProductArgument(t *testing.T) {
	product, err := ParseProductArgument(UpdateImage, "  Round  Neck ")
	if err != nil {
		t.Fatal(err)
	}
	if product != "Round Neck" {
		t.Errorf("product = %q", product)
	}
	if _, err := ParseProductArgument(UpdateImage, " "); !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("blank product error = %v", err)
	}
}

func TestParseSearch(t *testing.T) {
	query, err := ParseSearch("  round   neck ")
	if err != nil {
		t.Fatal(err)
	}
	if query != "round neck" {
		t.Errorf("query = %q", query)
	}
	if _, err := ParseSearch(""); !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("empty search error = %v", err)
	}
}
