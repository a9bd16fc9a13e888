// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog is the read-only category→product taxonomy that
// drives the browsing menus.
//
// A Catalog is built once from configuration and never changes. It
// preserves the configured order of categories and of products within
// a category, since that is the order the menus are rendered in. Names
// are canonicalized with inventory.CanonicalName so that menu payloads
// and ledger keys agree.
//
// Search ranks product names against free text with fzf's matching
// algorithm, the same scorer the fzf command-line tool uses.
package catalog
