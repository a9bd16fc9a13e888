// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/command"
	"github.com/bureau-foundation/stockroom/lib/conversation"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// Fixed reply texts.
const (
	textAdminControls    = "⚙️ Admin controls:"
	textGrantButton      = "➕ Add admin"
	textRevokeButton     = "➖ Remove admin"
	textWelcome          = "👋 Welcome! Choose a category below:"
	textPermissionDenied = "❌ Permission denied."
	textFailure          = "⚠️ That change could not be saved. Nothing was modified; please try again."
	textNothingToCancel  = "ℹ️ Nothing to cancel."
	textUnknownCategory  = "❗ That category no longer exists. Send /start for the current menu."
	textLedgerEmpty      = "📋 No stock has been recorded yet."
	textNoOperators      = "👥 There are no admins."
	textAlreadyAdmin     = "⚠️ This ID is already an admin."
	textNotAdmin         = "⚠️ This ID was not an admin."
)

func promptText(action conversation.Action) string {
	if action == conversation.Revoke {
		return "🆔 Send the Telegram ID of the admin to remove:"
	}
	return "🆔 Send the Telegram ID of the user to make an admin:"
}

func invalidOperatorIDText(action conversation.Action) string {
	return fmt.Sprintf("❗ That is not a Telegram ID. Send digits only (example: %s) to %s, or /cancel.",
		command.Example(command.OperatorIDRequest), action)
}

func cancelledText(action conversation.Action) string {
	return fmt.Sprintf("🚫 Pending %s cancelled.", action)
}

func malformedText(err *command.MalformedRequestError) string {
	if err.Example == "" {
		return fmt.Sprintf("❗ Invalid format: %s.", err.Reason)
	}
	return fmt.Sprintf("❗ Invalid format: %s. Example: %s", err.Reason, err.Example)
}

func categoryTitle(category string) string {
	return fmt.Sprintf("🛍️ Products in %s:", category)
}

func statusText(status inventory.Status) string {
	switch status {
	case inventory.Plentiful:
		return "🟢 " + status.String()
	case inventory.Low:
		return "🟠 " + status.String()
	default:
		return "❌ " + status.String()
	}
}

func productCard(product string, quantity int64) string {
	return fmt.Sprintf("📦 %s\n📊 Stock: %d pcs\n%s", product, quantity, statusText(inventory.StatusOf(quantity)))
}

func addedText(product string, quantity, total int64) string {
	return fmt.Sprintf("✅ Added %d pcs of %s. Total: %d pcs.", quantity, product, total)
}

func soldText(product string, quantity, remaining int64) string {
	return fmt.Sprintf("🛍️ Sold %d pcs of %s. Remaining: %d pcs (%s).",
		quantity, product, remaining, inventory.StatusOf(remaining))
}

func insufficientText(err *inventory.InsufficientStockError) string {
	return fmt.Sprintf("❗ Not enough stock of %s: %d pcs available, %d requested.",
		err.Product, err.Available, err.Requested)
}

func imageStoredText(product string, unchanged bool) string {
	if unchanged {
		return fmt.Sprintf("🖼️ %s already has this image.", product)
	}
	return fmt.Sprintf("🖼️ Image for %s uploaded.", product)
}

func grantedText(id authorization.OperatorID) string {
	return fmt.Sprintf("✅ %s is now an admin.", id)
}

func revokedText(id authorization.OperatorID) string {
	return fmt.Sprintf("✅ %s has been removed from the admins.", id)
}

func searchResultsText(query string, count int) string {
	if count == 0 {
		return fmt.Sprintf("🔎 No products match %q.", query)
	}
	return fmt.Sprintf("🔎 Products matching %q:", query)
}

func stockListText(entries []inventory.Entry) string {
	if len(entries) == 0 {
		return textLedgerEmpty
	}
	var builder strings.Builder
	builder.WriteString("📋 Stock:")
	for _, entry := range entries {
		fmt.Fprintf(&builder, "\n• %s: %d pcs (%s)", entry.Product, entry.Quantity, inventory.StatusOf(entry.Quantity))
	}
	return builder.String()
}

func operatorListText(members []authorization.OperatorID) string {
	if len(members) == 0 {
		return textNoOperators
	}
	var builder strings.Builder
	builder.WriteString("👥 Admins:")
	for _, member := range members {
		fmt.Fprintf(&builder, "\n• %s", member)
	}
	return builder.String()
}
