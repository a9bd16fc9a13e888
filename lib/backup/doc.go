// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package backup encodes point-in-time snapshots of the ledger and the
// operator registry into a single compact archive.
//
// Archive layout:
//
//	offset  size  field
//	0       8     magic "STKRBAK1"
//	8       1     compression tag (0 none, 1 lz4, 2 zstd)
//	9       4     uncompressed payload size, big-endian
//	13      ...   payload: CBOR Snapshot, compressed per the tag
//
// When the requested compression does not shrink the payload the
// archive is written uncompressed and the tag says so.
package backup
