// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/stockroom/lib/clock"
)

const (
	defaultPollTimeout = 30
	defaultMinBackoff  = time.Second
	defaultMaxBackoff  = 30 * time.Second
	pollBatchLimit     = 100
)

// Updater is the part of Client the poller needs.
type Updater interface {
	GetUpdates(ctx context.Context, request GetUpdatesRequest) ([]Update, error)
}

// UpdateHandler receives updates in the order Telegram assigned them.
// It must not block for long; the next poll waits for it to return.
type UpdateHandler func(ctx context.Context, update Update)

// PollerConfig configures a Poller.
type PollerConfig struct {
	Updater Updater
	Handler UpdateHandler

	// Clock times the back-off. Nil means clock.Real().
	Clock clock.Clock

	// Timeout is the long-poll timeout in seconds. Zero means 30.
	Timeout int

	// MinBackoff and MaxBackoff bound the wait after a failed poll.
	// Zero means 1s and 30s.
	MinBackoff time.Duration
	MaxBackoff time.Duration

	// Offset is the first update id to request. Zero asks Telegram
	// for everything it has not yet confirmed.
	Offset int64

	Logger *slog.Logger
}

// Poller runs the getUpdates loop.
type Poller struct {
	updater    Updater
	handler    UpdateHandler
	clock      clock.Clock
	timeout    int
	minBackoff time.Duration
	maxBackoff time.Duration
	offset     atomic.Int64
	logger     *slog.Logger
}

// NewPoller returns a Poller. Updater and Handler are required.
func NewPoller(config PollerConfig) *Poller {
	if config.Updater == nil || config.Handler == nil {
		panic("messaging: PollerConfig requires Updater and Handler")
	}
	poller := &Poller{
		updater:    config.Updater,
		handler:    config.Handler,
		clock:      config.Clock,
		timeout:    config.Timeout,
		minBackoff: config.MinBackoff,
		maxBackoff: config.MaxBackoff,
		logger:     config.Logger,
	}
	if poller.clock == nil {
		poller.clock = clock.Real()
	}
	if poller.timeout <= 0 {
		poller.timeout = defaultPollTimeout
	}
	if poller.minBackoff <= 0 {
		poller.minBackoff = defaultMinBackoff
	}
	if poller.maxBackoff < poller.minBackoff {
		poller.maxBackoff = max(defaultMaxBackoff, poller.minBackoff)
	}
	if poller.logger == nil {
		poller.logger = slog.New(slog.DiscardHandler)
	}
	poller.offset.Store(config.Offset)
	return poller
}

// Offset returns the next update id the poller will request.
func (p *Poller) Offset() int64 {
	return p.offset.Load()
}

// Run polls until ctx is cancelled, returning nil, or until Telegram
// rejects the token, returning the *APIError. Any other failure is
// retried after a back-off.
func (p *Poller) Run(ctx context.Context) error {
	backoff := p.minBackoff
	failures := 0

	p.logger.Info("polling for updates", "timeout_seconds", p.timeout, "offset", p.offset.Load())

	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := p.updater.GetUpdates(ctx, GetUpdatesRequest{
			Offset:         p.offset.Load(),
			Limit:          pollBatchLimit,
			Timeout:        p.timeout,
			AllowedUpdates: []string{"message", "callback_query"},
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if IsAPIError(err, ErrCodeUnauthorized) {
				return fmt.Errorf("bot token rejected: %w", err)
			}

			failures++
			delay := backoff
			if retryAfter, ok := RetryAfter(err); ok {
				delay = retryAfter
			} else {
				backoff = min(backoff*2, p.maxBackoff)
			}
			if closer, ok := p.updater.(interface{ CloseIdleConnections() }); ok {
				var apiError *APIError
				if !errors.As(err, &apiError) {
					closer.CloseIdleConnections()
				}
			}

			level := slog.LevelWarn
			if IsAPIError(err, ErrCodeConflict) {
				level = slog.LevelError
			}
			p.logger.Log(ctx, level, "poll failed, backing off",
				"error", err,
				"consecutive_failures", failures,
				"delay", delay,
			)

			select {
			case <-ctx.Done():
				return nil
			case <-p.clock.After(delay):
			}
			continue
		}

		if failures > 0 {
			p.logger.Info("polling recovered", "after_failures", failures)
		}
		failures = 0
		backoff = p.minBackoff

		for _, update := range updates {
			if update.UpdateID < p.offset.Load() {
				continue
			}
			p.offset.Store(update.UpdateID + 1)
			p.handler(ctx, update)
		}
	}
}
