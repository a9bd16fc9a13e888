// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the single CBOR configuration used by the
// stockroom: the control socket wire format and the payload of backup
// archives. Encoding is Core Deterministic (RFC 8949 §4.2), so the
// same value always produces the same bytes.
package codec
