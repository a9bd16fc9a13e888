// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// MaxSelectionSize is the chat transport's limit on button payloads,
// in bytes.
const MaxSelectionSize = 64

// SelectionKind identifies which menu button was pressed.
type SelectionKind int

const (
	SelectCategory SelectionKind = iota + 1
	SelectProduct
	BeginGrant
	BeginRevoke
)

func (k SelectionKind) String() string {
	switch k {
	case SelectCategory:
		return "category"
	case SelectProduct:
		return "product"
	case BeginGrant:
		return "begin grant"
	case BeginRevoke:
		return "begin revoke"
	default:
		return fmt.Sprintf("SelectionKind(%d)", int(k))
	}
}

const (
	categoryPrefix  = "category:"
	productPrefix   = "product:"
	beginGrantData  = "add_admin"
	beginRevokeData = "remove_admin"
)

// Selection is a decoded button payload. Value is the category or
// product name for SelectCategory and SelectProduct and empty
// otherwise.
type Selection struct {
	Kind  SelectionKind
	Value string
}

// CategorySelection returns the selection for a category button.
func CategorySelection(category string) Selection {
	return Selection{Kind: SelectCategory, Value: inventory.CanonicalName(category)}
}

// ProductSelection returns the selection for a product button.
func ProductSelection(product string) Selection {
	return Selection{Kind: SelectProduct, Value: inventory.CanonicalName(product)}
}

// Encode returns the button payload for s.
func (s Selection) Encode() string {
	switch s.Kind {
	case SelectCategory:
		return categoryPrefix + s.Value
	case SelectProduct:
		return productPrefix + s.Value
	case BeginGrant:
		return beginGrantData
	case BeginRevoke:
		return beginRevokeData
	default:
		return ""
	}
}

// ParseSelection decodes a button payload.
func ParseSelection(data string) (Selection, error) {
	switch {
	case data == beginGrantData:
		return Selection{Kind: BeginGrant}, nil
	case data == beginRevokeData:
		return Selection{Kind: BeginRevoke}, nil
	case strings.HasPrefix(data, categoryPrefix):
		value := inventory.CanonicalName(strings.TrimPrefix(data, categoryPrefix))
		if value == "" {
			return Selection{}, &MalformedRequestError{Command: "selection", Reason: "empty category"}
		}
		return Selection{Kind: SelectCategory, Value: value}, nil
	case strings.HasPrefix(data, productPrefix):
		value := inventory.CanonicalName(strings.TrimPrefix(data, productPrefix))
		if value == "" {
			return Selection{}, &MalformedRequestError{Command: "selection", Reason: "empty product"}
		}
		return Selection{Kind: SelectProduct, Value: value}, nil
	default:
		return Selection{}, &MalformedRequestError{
			Command: "selection",
			Reason:  fmt.Sprintf("unrecognized payload %q", data),
		}
	}
}

// CheckSelectionSize returns an error when the payload for s does not
// fit in a button.
func CheckSelectionSize(s Selection) error {
	if size := len(s.Encode()); size > MaxSelectionSize {
		return fmt.Errorf("%s %q: button payload is %d bytes, limit is %d",
			s.Kind, s.Value, size, MaxSelectionSize)
	}
	return nil
}
