// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage implements the persisted forms of the ledger and the
// operator registry.
//
// Two backends satisfy both inventory.Store and authorization.Store:
//
//   - [Files] keeps the original on-disk formats: stock.json, an
//     object mapping product name to quantity, and admins.json, an
//     array of operator IDs in grant order. Both are written with
//     two-space indentation. Writes go to a temporary file in the same
//     directory, are fsynced and renamed over the target, so a reader
//     sees either the old or the new document. A flock on a sibling
//     ".lock" file serializes writers across processes. Reads accept
//     JSONC (comments, trailing commas) so that hand-edited files load.
//
//   - [SQLite] stores the same data in two tables and replaces the
//     full snapshot inside one IMMEDIATE transaction per save.
//
// A missing file or empty database reads as an empty ledger and an
// empty registry.
package storage
