// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool wraps zombiezen.com/go/sqlite with the connection
// settings the stockroom's SQLite backend relies on.
//
// The ledger and the operator registry are the source of truth for the
// bot, so every connection uses synchronous=FULL: a committed
// transaction survives power loss, not only a process crash. WAL mode
// keeps status queries from the control socket from blocking writers.
//
// Callers either borrow a connection directly:
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Put(conn)
//
// or run a function inside an IMMEDIATE transaction with
// [Pool.Transaction], which commits when the function returns nil and
// rolls back otherwise.
package sqlitepool
