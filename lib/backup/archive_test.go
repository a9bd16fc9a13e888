// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/bureau-foundation/stockroom/lib/inventory"
)

func largeSnapshot() Snapshot {
	snapshot := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		Operators: []int64{100, 200, 300},
	}
	for index := range 200 {
		snapshot.Ledger = append(snapshot.Ledger, inventory.Entry{
			Product:  fmt.Sprintf("Round Neck size %03d", index),
			Quantity: int64(index % 7),
		})
	}
	return snapshot
}

func TestEncodeDecodeEachCompression(t *testing.T) {
	snapshot := largeSnapshot()
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			archive, header, err := Encode(snapshot, compression)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if header.Compression != compression {
				t.Errorf("header compression = %s, want %s", header.Compression, compression)
			}
			if compression != CompressionNone && header.CompressedSize >= header.PayloadSize {
				t.Errorf("compressed %d >= payload %d", header.CompressedSize, header.PayloadSize)
			}

			decoded, decodedHeader, err := Decode(archive)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if decodedHeader != header {
				t.Errorf("decoded header = %+v, want %+v", decodedHeader, header)
			}
			if !slices.Equal(decoded.Ledger, snapshot.Ledger) || !slices.Equal(decoded.Operators, snapshot.Operators) {
				t.Error("decoded snapshot differs")
			}
			if !decoded.CreatedAt.Equal(snapshot.CreatedAt) {
				t.Errorf("created_at = %v", decoded.CreatedAt)
			}
		})
	}
}

func TestEncodeFallsBackWhenIncompressible(t *testing.T) {
	tiny := Snapshot{Version: SnapshotVersion, Operators: []int64{1}}
	_, header, err := Encode(tiny, CompressionZstd)
	if err != nil {
		t.Fatal(err)
	}
	if header.Compression != CompressionNone {
		t.Errorf("compression = %s, want none for a tiny payload", header.Compression)
	}
}

func TestDecodeRejectsDamage(t *testing.T) {
	archive, _, err := Encode(largeSnapshot(), CompressionZstd)
	if err != nil {
		t.Fatal(err)
	}

	badMagic := slices.Clone(archive)
	badMagic[0] = 'X'
	if _, _, err := Decode(badMagic); err == nil {
		t.Error("bad magic accepted")
	}

	if _, _, err := Decode(archive[:headerSize-1]); err == nil {
		t.Error("short archive accepted")
	}

	truncated := archive[:len(archive)-10]
	if _, _, err := Decode(truncated); err == nil {
		t.Error("truncated payload accepted")
	}

	wrongTag := slices.Clone(archive)
	wrongTag[len(Magic)] = 9
	if _, _, err := Decode(wrongTag); err == nil {
		t.Error("unknown compression tag accepted")
	}
}

func TestParseCompression(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd"} {
		compression, err := ParseCompression(name)
		if err != nil {
			t.Errorf("ParseCompression(%q): %v", name, err)
		}
		if compression.String() != name {
			t.Errorf("round trip %q -> %s", name, compression)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("gzip accepted")
	}
}
