// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package imagestore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/stockroom/lib/inventory"
	"github.com/bureau-foundation/stockroom/lib/storage"
)

// MaxImageSize is the largest image accepted, matching the chat
// transport's photo upload limit for bots.
const MaxImageSize = 10 << 20

// extension is appended to the product name to form the file name.
const extension = ".jpg"

var (
	// ErrNotFound is returned by Get when the product has no image.
	ErrNotFound = errors.New("imagestore: no image")

	// ErrInvalidName is returned for product names that cannot be
	// used as a file name.
	ErrInvalidName = errors.New("imagestore: invalid product name")
)

// Digest is the BLAKE3 keyed hash of an image's bytes.
type Digest [32]byte

// String returns the first 12 hex digits, enough to tell uploads
// apart in replies and logs.
func (d Digest) String() string {
	return hex.EncodeToString(d[:6])
}

// digestKey separates image digests from any other BLAKE3 use.
var digestKey = [32]byte{
	's', 't', 'o', 'c', 'k', 'r', 'o', 'o', 'm', '.', 'i', 'm', 'a', 'g', 'e', 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// DigestOf returns the digest of data.
func DigestOf(data []byte) Digest {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("imagestore: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// PutResult describes a completed Put.
type PutResult struct {
	Digest Digest
	Size   int

	// Unchanged is true when the stored image already had this
	// content and nothing was written.
	Unchanged bool
}

// Store is a directory of product images. Safe for concurrent use.
type Store struct {
	directory string
	logger    *slog.Logger

	// writeMu serializes Put so the compare-then-write of the
	// unchanged check is not interleaved.
	writeMu sync.Mutex
}

// Open returns a store rooted at directory, creating it if needed.
func Open(directory string, logger *slog.Logger) (*Store, error) {
	if directory == "" {
		return nil, fmt.Errorf("imagestore: directory is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: creating %s: %w", directory, err)
	}
	return &Store{directory: directory, logger: logger}, nil
}

// Path returns the file path for product's image. The product name is
// canonicalized and must not contain path separators or NUL, and must
// not start with a dot.
func (s *Store) Path(product string) (string, error) {
	name := inventory.CanonicalName(product)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, "/\\\x00"):
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	return filepath.Join(s.directory, name+extension), nil
}

// Get returns the image bytes for product, or ErrNotFound.
func (s *Store) Get(product string) ([]byte, error) {
	path, err := s.Path(product)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w for %q", ErrNotFound, inventory.CanonicalName(product))
	}
	if err != nil {
		return nil, fmt.Errorf("imagestore: reading %s: %w", path, err)
	}
	return data, nil
}

// Put stores data as the image for product, replacing any previous
// image.
func (s *Store) Put(product string, data []byte) (PutResult, error) {
	path, err := s.Path(product)
	if err != nil {
		return PutResult{}, err
	}
	if len(data) == 0 {
		return PutResult{}, fmt.Errorf("imagestore: image for %q is empty", product)
	}
	if len(data) > MaxImageSize {
		return PutResult{}, fmt.Errorf("imagestore: image for %q is %d bytes, limit is %d", product, len(data), MaxImageSize)
	}

	result := PutResult{Digest: DigestOf(data), Size: len(data)}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if existing, err := os.ReadFile(path); err == nil && DigestOf(existing) == result.Digest {
		result.Unchanged = true
		s.logger.Info("product image unchanged", "path", path, "digest", result.Digest.String())
		return result, nil
	}

	if err := storage.WriteFileAtomic(path, data, 0o644); err != nil {
		return PutResult{}, fmt.Errorf("imagestore: %w", err)
	}
	s.logger.Info("product image stored",
		"path", path,
		"size", len(data),
		"digest", result.Digest.String(),
	)
	return result, nil
}
