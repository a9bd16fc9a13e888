// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
)

// Store persists complete ledger snapshots. Implementations must make
// SaveLedger atomic with respect to other writers: a concurrent reader
// (or a crash mid-write) observes either the previous snapshot or the
// new one, never a mixture.
//
// LoadLedger returns an empty map, not an error, when nothing has been
// stored yet.
type Store interface {
	LoadLedger(ctx context.Context) (map[string]int64, error)
	SaveLedger(ctx context.Context, snapshot map[string]int64) error
}

// Entry is one row of a ledger snapshot.
type Entry struct {
	Product  string `json:"product" cbor:"product"`
	Quantity int64  `json:"quantity" cbor:"quantity"`
}

// Ledger is the authoritative product→quantity mapping. All methods
// are safe for concurrent use; adjustments are serialized by a single
// mutex held across the read-modify-write and the store write.
type Ledger struct {
	mu         sync.Mutex
	quantities map[string]int64
	store      Store
	logger     *slog.Logger
}

// Open loads the current snapshot from store and returns a ledger
// backed by it. Stored names are canonicalized; two stored names that
// canonicalize to the same key are summed. A stored negative quantity
// is rejected as corrupt.
func Open(ctx context.Context, store Store, logger *slog.Logger) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("inventory: store is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	stored, err := store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: loading ledger: %w", err)
	}

	quantities := make(map[string]int64, len(stored))
	normalized := false
	for name, quantity := range stored {
		if quantity < 0 {
			return nil, fmt.Errorf("inventory: stored quantity for %q is negative (%d)", name, quantity)
		}
		key := CanonicalName(name)
		if key == "" {
			return nil, fmt.Errorf("inventory: stored ledger contains a blank product name")
		}
		if key != name {
			logger.Warn("stored product name normalized", "stored", name, "product", key)
			normalized = true
		}
		sum := quantities[key] + quantity
		if sum < quantities[key] {
			return nil, fmt.Errorf("inventory: stored quantity for %q overflows: %w", key, ErrQuantityOverflow)
		}
		quantities[key] = sum
	}

	// Rewrite the store so the durable snapshot matches memory.
	if normalized {
		if err := store.SaveLedger(ctx, quantities); err != nil {
			return nil, fmt.Errorf("inventory: persisting normalized ledger: %w", err)
		}
	}

	logger.Info("ledger loaded", "products", len(quantities))

	return &Ledger{
		quantities: quantities,
		store:      store,
		logger:     logger,
	}, nil
}

// QuantityOf returns the quantity on hand for name, or 0 when the
// product has no entry.
func (l *Ledger) QuantityOf(name string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quantities[CanonicalName(name)]
}

// Adjust applies delta to the quantity of name, treating an absent
// entry as 0, and returns the new quantity. A positive delta restocks
// and a negative delta sells.
//
// When the result would be negative, Adjust returns an
// *InsufficientStockError and the ledger is unchanged. Otherwise the
// full snapshot is written to the store; if that write fails the error
// is returned and the in-memory ledger keeps its previous value.
func (l *Ledger) Adjust(ctx context.Context, name string, delta int64) (int64, error) {
	key := CanonicalName(name)
	if key == "" {
		return 0, fmt.Errorf("%w: product name is empty", ErrInvalidAdjustment)
	}
	if delta == 0 {
		return 0, fmt.Errorf("%w: delta must be nonzero", ErrInvalidAdjustment)
	}
	if delta == math.MinInt64 {
		return 0, fmt.Errorf("adjusting %q by %d: %w", key, delta, ErrQuantityOverflow)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.quantities[key]
	if delta > 0 && current > math.MaxInt64-delta {
		return current, fmt.Errorf("adjusting %q by %d: %w", key, delta, ErrQuantityOverflow)
	}
	next := current + delta
	if next < 0 {
		return current, &InsufficientStockError{
			Product:   key,
			Available: current,
			Requested: -delta,
		}
	}

	snapshot := make(map[string]int64, len(l.quantities)+1)
	for product, quantity := range l.quantities {
		snapshot[product] = quantity
	}
	snapshot[key] = next

	if err := l.store.SaveLedger(ctx, snapshot); err != nil {
		l.logger.Error("ledger write failed",
			"product", key,
			"delta", delta,
			"error", err,
		)
		return current, fmt.Errorf("inventory: persisting ledger: %w", err)
	}
	l.quantities = snapshot

	l.logger.Info("ledger adjusted",
		"product", key,
		"delta", delta,
		"quantity", next,
	)
	return next, nil
}

// Snapshot returns every entry sorted by product name.
func (l *Ledger) Snapshot() []Entry {
	l.mu.Lock()
	entries := make([]Entry, 0, len(l.quantities))
	for product, quantity := range l.quantities {
		entries = append(entries, Entry{Product: product, Quantity: quantity})
	}
	l.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Product < entries[j].Product
	})
	return entries
}

// Len returns the number of products with an entry.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.quantities)
}
