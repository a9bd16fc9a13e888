// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/stockroom/lib/authorization"
)

// fileMode matches what the bot has always created: readable by the
// group so that backup jobs can copy the files.
const fileMode = 0o644

// Files is the JSON-file backend.
type Files struct {
	LedgerPath    string
	OperatorsPath string
	Logger        *slog.Logger
}

// Initialize creates any missing file with an empty document.
func (f *Files) Initialize(ctx context.Context) error {
	documents := []struct {
		path  string
		empty []byte
	}{
		{f.LedgerPath, []byte("{}\n")},
		{f.OperatorsPath, []byte("[]\n")},
	}
	for _, document := range documents {
		if _, err := os.Stat(document.path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage: checking %s: %w", document.path, err)
		}
		if err := f.write(ctx, document.path, document.empty); err != nil {
			return err
		}
		f.logger().Info("created empty store file", "path", document.path)
	}
	return nil
}

// LoadLedger reads the stock file.
func (f *Files) LoadLedger(ctx context.Context) (map[string]int64, error) {
	ledger := make(map[string]int64)
	if err := readDocument(f.LedgerPath, &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

// SaveLedger replaces the stock file with snapshot.
func (f *Files) SaveLedger(ctx context.Context, snapshot map[string]int64) error {
	if snapshot == nil {
		snapshot = map[string]int64{}
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encoding ledger: %w", err)
	}
	return f.write(ctx, f.LedgerPath, append(data, '\n'))
}

// LoadOperators reads the operators file.
func (f *Files) LoadOperators(ctx context.Context) ([]authorization.OperatorID, error) {
	var operators []authorization.OperatorID
	if err := readDocument(f.OperatorsPath, &operators); err != nil {
		return nil, err
	}
	return operators, nil
}

// SaveOperators replaces the operators file with operators, in order.
func (f *Files) SaveOperators(ctx context.Context, operators []authorization.OperatorID) error {
	if operators == nil {
		operators = []authorization.OperatorID{}
	}
	data, err := json.MarshalIndent(operators, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encoding operators: %w", err)
	}
	return f.write(ctx, f.OperatorsPath, append(data, '\n'))
}

// Close is a no-op; Files holds no open handles between calls.
func (f *Files) Close() error { return nil }

func (f *Files) write(ctx context.Context, path string, data []byte) error {
	unlock, err := lockPath(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()
	return WriteFileAtomic(path, data, fileMode)
}

func (f *Files) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}

// readDocument decodes the JSONC document at path into target. A
// missing or blank file leaves target untouched.
func readDocument(path string, target any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), target); err != nil {
		return fmt.Errorf("storage: parsing %s: %w", path, err)
	}
	return nil
}
