// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bureau-foundation/stockroom/lib/codec"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// Magic opens every archive.
const Magic = "STKRBAK1"

const headerSize = len(Magic) + 1 + 4

// maxPayloadSize rejects archives whose header claims an absurd
// payload before any allocation happens.
const maxPayloadSize = 256 << 20

// SnapshotVersion is the current Snapshot schema version.
const SnapshotVersion = 1

// Snapshot is the archived state.
type Snapshot struct {
	Version   int               `cbor:"version" json:"version"`
	CreatedAt time.Time         `cbor:"created_at" json:"created_at"`
	Ledger    []inventory.Entry `cbor:"ledger" json:"ledger"`
	Operators []int64           `cbor:"operators" json:"operators"`
}

// Header describes an archive without decoding its payload.
type Header struct {
	Compression    Compression
	PayloadSize    int
	CompressedSize int
}

// Encode serializes snapshot and compresses it with compression,
// falling back to CompressionNone when compression would not help.
func Encode(snapshot Snapshot, compression Compression) ([]byte, Header, error) {
	payload, err := codec.Marshal(snapshot)
	if err != nil {
		return nil, Header{}, fmt.Errorf("backup: encoding snapshot: %w", err)
	}
	if len(payload) > maxPayloadSize {
		return nil, Header{}, fmt.Errorf("backup: snapshot is %d bytes, limit is %d", len(payload), maxPayloadSize)
	}

	body, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		compression = CompressionNone
		body = payload
	} else if err != nil {
		return nil, Header{}, fmt.Errorf("backup: %w", err)
	}

	archive := make([]byte, headerSize, headerSize+len(body))
	copy(archive, Magic)
	archive[len(Magic)] = byte(compression)
	binary.BigEndian.PutUint32(archive[len(Magic)+1:], uint32(len(payload)))
	archive = append(archive, body...)

	return archive, Header{
		Compression:    compression,
		PayloadSize:    len(payload),
		CompressedSize: len(body),
	}, nil
}

// ReadHeader validates the fixed header of archive.
func ReadHeader(archive []byte) (Header, error) {
	if len(archive) < headerSize {
		return Header{}, fmt.Errorf("backup: archive is %d bytes, shorter than the header", len(archive))
	}
	if string(archive[:len(Magic)]) != Magic {
		return Header{}, fmt.Errorf("backup: not a stockroom archive (bad magic)")
	}
	size := binary.BigEndian.Uint32(archive[len(Magic)+1:])
	if size > maxPayloadSize || uint64(size) > math.MaxInt32 {
		return Header{}, fmt.Errorf("backup: header claims %d byte payload, limit is %d", size, maxPayloadSize)
	}
	return Header{
		Compression:    Compression(archive[len(Magic)]),
		PayloadSize:    int(size),
		CompressedSize: len(archive) - headerSize,
	}, nil
}

// Payload returns the decompressed CBOR payload of archive.
func Payload(archive []byte) ([]byte, Header, error) {
	header, err := ReadHeader(archive)
	if err != nil {
		return nil, Header{}, err
	}
	payload, err := decompress(archive[headerSize:], header.Compression, header.PayloadSize)
	if err != nil {
		return nil, Header{}, fmt.Errorf("backup: %w", err)
	}
	return payload, header, nil
}

// Decode reverses Encode.
func Decode(archive []byte) (Snapshot, Header, error) {
	payload, header, err := Payload(archive)
	if err != nil {
		return Snapshot{}, Header{}, err
	}
	var snapshot Snapshot
	if err := codec.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, Header{}, fmt.Errorf("backup: decoding snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return Snapshot{}, Header{}, fmt.Errorf("backup: unsupported snapshot version %d", snapshot.Version)
	}
	return snapshot, header, nil
}
