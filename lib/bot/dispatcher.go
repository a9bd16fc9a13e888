// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/stockroom/lib/authorization"
)

// DefaultMaxConcurrent bounds the operators served at once when
// DispatcherConfig.MaxConcurrent is zero.
const DefaultMaxConcurrent = 8

// Handler processes a single event. *Router implements it.
type Handler interface {
	Handle(ctx context.Context, event Event) Response
}

// DeliverFunc receives the response to a submitted event.
type DeliverFunc func(ctx context.Context, response Response)

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	Handler       Handler
	MaxConcurrent int
	Logger        *slog.Logger
}

// Dispatcher runs events through a Handler. Events from one operator
// are handled and delivered strictly in submission order; different
// operators proceed in parallel, at most MaxConcurrent at a time.
type Dispatcher struct {
	handler   Handler
	semaphore chan struct{}
	logger    *slog.Logger

	mu    sync.Mutex
	lanes map[authorization.OperatorID]*lane
	wg    sync.WaitGroup
}

type lane struct {
	queue []submission
}

type submission struct {
	ctx     context.Context
	event   Event
	deliver DeliverFunc
}

// NewDispatcher returns a Dispatcher. It panics when Handler is nil.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	if config.Handler == nil {
		panic("bot: DispatcherConfig.Handler is required")
	}
	limit := config.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrent
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		handler:   config.Handler,
		semaphore: make(chan struct{}, limit),
		logger:    logger,
		lanes:     make(map[authorization.OperatorID]*lane),
	}
}

// Submit queues event for handling and returns immediately. deliver
// may be nil when the response is not needed.
func (d *Dispatcher) Submit(ctx context.Context, event Event, deliver DeliverFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	item := submission{ctx: ctx, event: event, deliver: deliver}
	if existing, ok := d.lanes[event.Operator]; ok {
		existing.queue = append(existing.queue, item)
		return
	}
	operatorLane := &lane{queue: []submission{item}}
	d.lanes[event.Operator] = operatorLane
	d.wg.Add(1)
	go d.drain(event.Operator, operatorLane)
}

// Wait blocks until every submitted event has been delivered.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Pending returns the number of operators with queued or running
// events.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lanes)
}

func (d *Dispatcher) drain(operator authorization.OperatorID, operatorLane *lane) {
	defer d.wg.Done()

	d.semaphore <- struct{}{}
	defer func() { <-d.semaphore }()

	for {
		d.mu.Lock()
		if len(operatorLane.queue) == 0 {
			delete(d.lanes, operator)
			d.mu.Unlock()
			return
		}
		item := operatorLane.queue[0]
		operatorLane.queue[0] = submission{}
		operatorLane.queue = operatorLane.queue[1:]
		d.mu.Unlock()

		d.run(item)
	}
}

func (d *Dispatcher) run(item submission) {
	if err := item.ctx.Err(); err != nil {
		d.logger.Debug("dropping event for cancelled context",
			"operator", item.event.Operator,
			"error", err,
		)
		return
	}
	response := d.handler.Handle(item.ctx, item.event)
	if item.deliver != nil {
		item.deliver(item.ctx, response)
	}
}
