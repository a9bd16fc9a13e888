// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package command turns the text operators type, and the payloads
// attached to menu buttons, into typed requests.
//
// Parsing is kept apart from execution: every function here is pure,
// and every rejection is a [*MalformedRequestError] carrying the
// reason and a corrected example that can be shown to the operator
// unchanged. Nothing in this package touches the ledger or registry.
//
// The grammar:
//
//	/<name>[@<bot>] [arguments]       command invocation
//	<product> - <quantity>            add and sell arguments
//	<digits>                          operator identity
//	category:<C> | product:<P>        menu selections
//	add_admin | remove_admin          admin menu selections
package command
