// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the stockroom CLI: a tree
// of [Command] values dispatched by name, flags bound from tagged
// parameter structs, typo suggestions, JSON output, and the connection
// to the bot's control socket.
package cli
