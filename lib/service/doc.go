// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service implements the stockroom control socket: a CBOR
// request-response protocol on a Unix socket, one request per
// connection.
//
// A request is a CBOR map whose "action" field selects a handler
// registered with [Server.Handle]; the remaining fields are the
// action's parameters. Every reply is a [Response] envelope. Handlers
// that return an [*ActionError] attach a machine-readable code that
// [Client.Call] surfaces as [ServiceError.Code].
//
// The socket file is created with mode 0600. Reaching the socket is
// the authority to administer the stockroom, so it is meant for the
// local operator account only.
package service
