// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package imagestore keeps one photo per product as
// <directory>/<product>.jpg.
//
// The store does not decode images; bytes are stored as received from
// the chat transport. Writes are atomic (temporary file, fsync,
// rename). Each stored image is identified by a BLAKE3 digest so an
// upload identical to the current image is recognized and skipped.
package imagestore
