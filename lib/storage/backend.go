// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Backend persists both the ledger and the registry.
type Backend interface {
	inventory.Store
	authorization.Store
	Close() error
}

// Options selects and locates a backend.
type Options struct {
	// Backend is BackendJSON or BackendSQLite.
	Backend string

	// Directory holds the JSON files and is the base for relative
	// paths below.
	Directory string

	LedgerFile    string
	OperatorsFile string
	SQLitePath    string

	Logger *slog.Logger
}

// Open creates the directory if needed and opens the selected backend.
// For the JSON backend, missing files are created holding an empty
// document so that the layout on disk is complete from the first run.
func Open(ctx context.Context, options Options) (Backend, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := ensureDirectory(options.Directory); err != nil {
		return nil, err
	}

	switch options.Backend {
	case BackendJSON, "":
		files := &Files{
			LedgerPath:    resolve(options.Directory, options.LedgerFile, "stock.json"),
			OperatorsPath: resolve(options.Directory, options.OperatorsFile, "admins.json"),
			Logger:        logger,
		}
		if err := files.Initialize(ctx); err != nil {
			return nil, err
		}
		return files, nil
	case BackendSQLite:
		return OpenSQLite(ctx, resolve(options.Directory, options.SQLitePath, "stockroom.db"), logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", options.Backend)
	}
}

func resolve(directory, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) || directory == "" {
		return path
	}
	return filepath.Join(directory, path)
}
