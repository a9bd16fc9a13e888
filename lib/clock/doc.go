// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Components that stamp or wait on time take a Clock instead of
// calling the time package directly. In production Real() supplies
// standard library behavior; in tests Fake() supplies a clock that
// moves only when Advance is called:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	poller := messaging.NewPoller(messaging.PollerConfig{Clock: fake, ...})
//	go poller.Run(ctx)
//	fake.WaitForTimers(1)     // poller is backing off
//	fake.Advance(time.Second) // release it
package clock
