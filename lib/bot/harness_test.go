// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/catalog"
	"github.com/bureau-foundation/stockroom/lib/clock"
	"github.com/bureau-foundation/stockroom/lib/conversation"
	"github.com/bureau-foundation/stockroom/lib/imagestore"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

const (
	testAdmin    authorization.OperatorID = 1000
	testStranger authorization.OperatorID = 2000
)

// memoryBackend stores the ledger and the operator set in memory and
// can be told to fail writes.
type memoryBackend struct {
	mu        sync.Mutex
	ledger    map[string]int64
	operators []authorization.OperatorID
	failWrite error
}

func (b *memoryBackend) LoadLedger(context.Context) (map[string]int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make(map[string]int64, len(b.ledger))
	for name, quantity := range b.ledger {
		result[name] = quantity
	}
	return result, nil
}

func (b *memoryBackend) SaveLedger(_ context.Context, snapshot map[string]int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite != nil {
		return b.failWrite
	}
	b.ledger = make(map[string]int64, len(snapshot))
	for name, quantity := range snapshot {
		b.ledger[name] = quantity
	}
	return nil
}

func (b *memoryBackend) LoadOperators(context.Context) ([]authorization.OperatorID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.operators), nil
}

func (b *memoryBackend) SaveOperators(_ context.Context, operators []authorization.OperatorID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite != nil {
		return b.failWrite
	}
	b.operators = slices.Clone(operators)
	return nil
}

func (b *memoryBackend) setFailWrite(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrite = err
}

func (b *memoryBackend) persistedOperators() []authorization.OperatorID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.operators)
}

func (b *memoryBackend) persistedQuantity(product string) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	quantity, ok := b.ledger[product]
	return quantity, ok
}

type memoryImages struct {
	mu     sync.Mutex
	images map[string][]byte
}

func (m *memoryImages) Get(product string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.images[product]
	if !ok {
		return nil, imagestore.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (m *memoryImages) Put(product string, data []byte) (imagestore.PutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.images == nil {
		m.images = make(map[string][]byte)
	}
	result := imagestore.PutResult{Digest: imagestore.DigestOf(data), Size: len(data)}
	if existing, ok := m.images[product]; ok && imagestore.DigestOf(existing) == result.Digest {
		result.Unchanged = true
		return result, nil
	}
	m.images[product] = slices.Clone(data)
	return result, nil
}

// harness wires a Router to in-memory collaborators.
type harness struct {
	backend       *memoryBackend
	images        *memoryImages
	ledger        *inventory.Ledger
	registry      *authorization.Registry
	conversations *conversation.Store
	router        *Router
}

func newHarness(t testing.TB, operators ...authorization.OperatorID) *harness {
	t.Helper()
	h, err := buildHarness(operators...)
	if err != nil {
		t.Fatalf("building harness: %v", err)
	}
	return h
}

func buildHarness(operators ...authorization.OperatorID) (*harness, error) {
	ctx := context.Background()
	backend := &memoryBackend{operators: slices.Clone(operators)}
	images := &memoryImages{}

	ledger, err := inventory.Open(ctx, backend, nil)
	if err != nil {
		return nil, err
	}
	registry, err := authorization.Open(ctx, backend, nil)
	if err != nil {
		return nil, err
	}
	stockCatalog, err := catalog.New(catalog.Default())
	if err != nil {
		return nil, err
	}
	conversations := conversation.NewStore(clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	router, err := NewRouter(Config{
		Ledger:        ledger,
		Registry:      registry,
		Conversations: conversations,
		Catalog:       stockCatalog,
		Images:        images,
		BotUsername:   "stockroom_bot",
	})
	if err != nil {
		return nil, err
	}
	return &harness{
		backend:       backend,
		images:        images,
		ledger:        ledger,
		registry:      registry,
		conversations: conversations,
		router:        router,
	}, nil
}

func (h *harness) send(operator authorization.OperatorID, text string) Response {
	return h.router.Handle(context.Background(), Event{Kind: EventMessage, Operator: operator, Text: text})
}

func (h *harness) press(operator authorization.OperatorID, selection string) Response {
	return h.router.Handle(context.Background(), Event{Kind: EventSelection, Operator: operator, Selection: selection})
}

func replyTexts(response Response) []string {
	texts := make([]string, 0, len(response.Replies))
	for _, reply := range response.Replies {
		texts = append(texts, reply.Text)
	}
	return texts
}

func requireSingleReply(t *testing.T, response Response) Reply {
	t.Helper()
	if len(response.Replies) != 1 {
		t.Fatalf("got %d replies %q, want 1", len(response.Replies), replyTexts(response))
	}
	return response.Replies[0]
}
