// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bot is the stockroom's request router and its Telegram
// bridge.
//
// [Router.Handle] is the single entry point for inbound events. An
// event is either a message (a command, or free text that may answer
// a pending admin prompt) or a button selection. The router checks
// authorization, consults the conversation store for a pending grant
// or revoke, and dispatches to the ledger, the registry, the catalog
// or the image store. It returns a [Response] holding the replies to
// render and the error, if any, that classified the outcome.
//
// Per operator, the admin workflow has two states: idle, and awaiting
// an operator id for a grant or a revoke. Begin-grant and begin-revoke
// buttons move an authorized operator into the awaiting state; a
// numeric reply applies the change and returns to idle; a non-numeric
// reply re-prompts and stays; /cancel returns to idle. Persistence
// failures leave the pending action in place.
//
// [Dispatcher] runs events concurrently across operators while
// keeping each operator's events in arrival order. [Bridge] converts
// Telegram updates into events and renders responses through the
// messaging client.
package bot
