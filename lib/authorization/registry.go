// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// ErrPermissionDenied is returned when a caller that is not in the
// registry attempts an operator-only action.
var ErrPermissionDenied = errors.New("authorization: permission denied")

// OperatorID is the numeric user identity assigned by the chat
// transport.
type OperatorID int64

func (id OperatorID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// GrantOutcome reports what Grant did.
type GrantOutcome int

const (
	Added GrantOutcome = iota
	AlreadyPresent
)

func (o GrantOutcome) String() string {
	if o == Added {
		return "added"
	}
	return "already present"
}

// RevokeOutcome reports what Revoke did.
type RevokeOutcome int

const (
	Removed RevokeOutcome = iota
	NotPresent
)

func (o RevokeOutcome) String() string {
	if o == Removed {
		return "removed"
	}
	return "not present"
}

// Store persists the operator list. The slice order is the order in
// which operators were granted. SaveOperators must replace the stored
// list atomically.
type Store interface {
	LoadOperators(ctx context.Context) ([]OperatorID, error)
	SaveOperators(ctx context.Context, operators []OperatorID) error
}

// Registry is the authoritative operator set.
type Registry struct {
	mu      sync.RWMutex
	members []OperatorID
	index   map[OperatorID]struct{}
	store   Store
	logger  *slog.Logger
}

// Open loads the operator list from store. Duplicate entries in the
// stored list are dropped, keeping the first occurrence.
func Open(ctx context.Context, store Store, logger *slog.Logger) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("authorization: store is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	stored, err := store.LoadOperators(ctx)
	if err != nil {
		return nil, fmt.Errorf("authorization: loading operators: %w", err)
	}

	registry := &Registry{
		members: make([]OperatorID, 0, len(stored)),
		index:   make(map[OperatorID]struct{}, len(stored)),
		store:   store,
		logger:  logger,
	}
	for _, id := range stored {
		if _, exists := registry.index[id]; exists {
			logger.Warn("duplicate operator in store", "operator", id)
			continue
		}
		registry.index[id] = struct{}{}
		registry.members = append(registry.members, id)
	}

	logger.Info("operator registry loaded", "operators", len(registry.members))
	return registry, nil
}

// IsAuthorized reports whether id is a member.
func (r *Registry) IsAuthorized(id OperatorID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.index[id]
	return exists
}

// Authorize returns ErrPermissionDenied when id is not a member.
func (r *Registry) Authorize(id OperatorID) error {
	if !r.IsAuthorized(id) {
		return fmt.Errorf("operator %d: %w", id, ErrPermissionDenied)
	}
	return nil
}

// Grant adds id to the registry. Granting an existing member returns
// AlreadyPresent without writing. An error is returned only when the
// store write fails, in which case the registry is unchanged.
func (r *Registry) Grant(ctx context.Context, id OperatorID) (GrantOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[id]; exists {
		return AlreadyPresent, nil
	}

	next := make([]OperatorID, len(r.members), len(r.members)+1)
	copy(next, r.members)
	next = append(next, id)

	if err := r.store.SaveOperators(ctx, next); err != nil {
		return Added, fmt.Errorf("authorization: persisting grant of %d: %w", id, err)
	}
	r.members = next
	r.index[id] = struct{}{}

	r.logger.Info("operator granted", "operator", id, "operators", len(next))
	return Added, nil
}

// Revoke removes id from the registry. Revoking a non-member returns
// NotPresent without writing. An error is returned only when the store
// write fails, in which case the registry is unchanged.
func (r *Registry) Revoke(ctx context.Context, id OperatorID) (RevokeOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[id]; !exists {
		return NotPresent, nil
	}

	next := make([]OperatorID, 0, len(r.members)-1)
	for _, member := range r.members {
		if member != id {
			next = append(next, member)
		}
	}

	if err := r.store.SaveOperators(ctx, next); err != nil {
		return Removed, fmt.Errorf("authorization: persisting revocation of %d: %w", id, err)
	}
	r.members = next
	delete(r.index, id)

	r.logger.Info("operator revoked", "operator", id, "operators", len(next))
	return Removed, nil
}

// Seed grants ids only when the registry is empty, and returns how
// many were added. A registry that already has members is left alone
// so that operators revoked at runtime are not resurrected on restart.
func (r *Registry) Seed(ctx context.Context, ids []OperatorID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) > 0 || len(ids) == 0 {
		return 0, nil
	}

	next := make([]OperatorID, 0, len(ids))
	index := make(map[OperatorID]struct{}, len(ids))
	for _, id := range ids {
		if _, exists := index[id]; exists {
			continue
		}
		index[id] = struct{}{}
		next = append(next, id)
	}

	if err := r.store.SaveOperators(ctx, next); err != nil {
		return 0, fmt.Errorf("authorization: persisting bootstrap operators: %w", err)
	}
	r.members = next
	r.index = index

	r.logger.Info("operator registry seeded", "operators", len(next))
	return len(next), nil
}

// Members returns the operators in grant order.
func (r *Registry) Members() []OperatorID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]OperatorID, len(r.members))
	copy(result, r.members)
	return result
}
