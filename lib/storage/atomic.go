// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// lockRetryInterval is how often a blocked writer retries its flock.
const lockRetryInterval = 10 * time.Millisecond

func ensureDirectory(directory string) error {
	if directory == "" {
		return nil
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("storage: creating %s: %w", directory, err)
	}
	return nil
}

// lockPath takes an exclusive flock on path+".lock" and returns the
// function that releases it. It gives up when ctx is done.
func lockPath(ctx context.Context, path string) (func(), error) {
	lockFile, err := os.OpenFile(path+".lock", os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: opening lock for %s: %w", path, err)
	}

	for {
		err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			lockFile.Close()
			return nil, fmt.Errorf("storage: locking %s: %w", path, err)
		}
		select {
		case <-ctx.Done():
			lockFile.Close()
			return nil, fmt.Errorf("storage: waiting for lock on %s: %w", path, ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
		lockFile.Close()
	}, nil
}

// WriteFileAtomic replaces path with data. The data is written to a
// uniquely named temporary file in the same directory, fsynced, and
// renamed into place; the directory is then fsynced so the rename
// survives power loss.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: creating temporary file for %s: %w", path, err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("storage: writing %s: %w", temporaryPath, err)
	}
	if err := file.Chmod(perm); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("storage: setting mode on %s: %w", temporaryPath, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("storage: syncing %s: %w", temporaryPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("storage: closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("storage: renaming %s into place: %w", path, err)
	}

	parent, err := os.Open(directory)
	if err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
