// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package control defines the actions served on the bot's control
// socket and their CBOR request and response bodies. The bot daemon
// registers handlers for these actions; the stockroom CLI calls them
// through [service.Client].
package control
