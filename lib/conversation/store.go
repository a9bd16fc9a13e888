// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package conversation

import (
	"sync"
	"time"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/clock"
)

// Action is the registry change an operator has asked for and not yet
// completed.
type Action int

const (
	Grant Action = iota + 1
	Revoke
)

func (a Action) String() string {
	switch a {
	case Grant:
		return "grant"
	case Revoke:
		return "revoke"
	default:
		return "unknown"
	}
}

// Pending is an outstanding admin action. Since records when it was
// begun, for display and logging only; pending actions never expire.
type Pending struct {
	Action Action
	Since  time.Time
}

// Store maps operators to their pending action. At most one action is
// pending per operator; Begin replaces whatever was there. Safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	pending map[authorization.OperatorID]Pending
	clock   clock.Clock
}

// NewStore returns an empty store. A nil clock means clock.Real().
func NewStore(timeSource clock.Clock) *Store {
	if timeSource == nil {
		timeSource = clock.Real()
	}
	return &Store{
		pending: make(map[authorization.OperatorID]Pending),
		clock:   timeSource,
	}
}

// Begin records action as pending for operator, overwriting any
// previous pending action.
func (s *Store) Begin(operator authorization.OperatorID, action Action) Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := Pending{Action: action, Since: s.clock.Now()}
	s.pending[operator] = pending
	return pending
}

// Peek returns the pending action for operator, if any.
func (s *Store) Peek(operator authorization.OperatorID) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, exists := s.pending[operator]
	return pending, exists
}

// Resolve clears the pending action for operator. Clearing an operator
// with nothing pending is a no-op.
func (s *Store) Resolve(operator authorization.OperatorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, operator)
}

// ResolveIf clears the pending action for operator only when it is
// still the one identified by expected. It reports whether it cleared
// anything. The router uses it after a registry write so that a Begin
// that raced in between is not lost.
func (s *Store) ResolveIf(operator authorization.OperatorID, expected Pending) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.pending[operator]
	if !exists || current != expected {
		return false
	}
	delete(s.pending, operator)
	return true
}

// Len returns the number of operators with a pending action.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
