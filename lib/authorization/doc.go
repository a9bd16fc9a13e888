// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorization holds the registry of operators: the chat
// identities allowed to change stock levels, update product images and
// manage the registry itself.
//
// The registry is a set with a stable insertion order. Membership
// checks take a read lock; Grant and Revoke take the write lock for the
// whole mutation including the store write, so persisted snapshots are
// always consistent and in the order operators were added. Granting a
// member or revoking a non-member is reported through the outcome
// value, not an error, and does not touch the store.
//
// A registry starts empty. Until it is seeded (by [Registry.Seed] from
// the daemon's bootstrap_operators setting, or by editing the store
// directly) no identity is authorized.
package authorization
