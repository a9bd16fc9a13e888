// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"slices"
	"testing"

	"github.com/bureau-foundation/stockroom/lib/authorization"
)

func openSQLite(t *testing.T, directory string) Backend {
	t.Helper()
	backend, err := Open(context.Background(), Options{Backend: BackendSQLite, Directory: directory})
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestSQLiteEmpty(t *testing.T) {
	ctx := context.Background()
	backend := openSQLite(t, t.TempDir())

	ledger, err := backend.LoadLedger(ctx)
	if err != nil || len(ledger) != 0 {
		t.Errorf("LoadLedger = (%v, %v), want empty", ledger, err)
	}
	operators, err := backend.LoadOperators(ctx)
	if err != nil || len(operators) != 0 {
		t.Errorf("LoadOperators = (%v, %v), want empty", operators, err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	directory := t.TempDir()
	backend, err := Open(ctx, Options{Backend: BackendSQLite, Directory: directory})
	if err != nil {
		t.Fatal(err)
	}

	if err := backend.SaveLedger(ctx, map[string]int64{"Formal": 4, "V-Neck": 0}); err != nil {
		t.Fatal(err)
	}
	if err := backend.SaveLedger(ctx, map[string]int64{"Formal": 3, "V-Neck": 0, "Casual": 9}); err != nil {
		t.Fatal(err)
	}
	if err := backend.SaveOperators(ctx, []authorization.OperatorID{500, 100, 300}); err != nil {
		t.Fatal(err)
	}
	if err := backend.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openSQLite(t, directory)
	ledger, err := reopened.LoadLedger(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ledger) != 3 || ledger["Formal"] != 3 || ledger["Casual"] != 9 || ledger["V-Neck"] != 0 {
		t.Errorf("ledger = %v", ledger)
	}
	operators, err := reopened.LoadOperators(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(operators, []authorization.OperatorID{500, 100, 300}) {
		t.Errorf("operators = %v, want grant order", operators)
	}
}

func TestSQLiteRejectsNegativeQuantity(t *testing.T) {
	ctx := context.Background()
	backend := openSQLite(t, t.TempDir())

	if err := backend.SaveLedger(ctx, map[string]int64{"Formal": 2}); err != nil {
		t.Fatal(err)
	}
	if err := backend.SaveLedger(ctx, map[string]int64{"Formal": -1}); err == nil {
		t.Fatal("negative quantity stored")
	}
	ledger, err := backend.LoadLedger(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ledger["Formal"] != 2 {
		t.Errorf("failed save was not rolled back: %v", ledger)
	}
}
