// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the subset of the Telegram Bot API the
// stockroom bot uses.
//
// [Client] holds the API base URL, the bot token in a secret.Buffer,
// and the HTTP transport. Every method maps to one Bot API call:
// getUpdates, sendMessage, editMessageText, answerCallbackQuery,
// sendPhoto (multipart upload), getFile, and the file download
// endpoint. The token is part of every request URL, so transport
// errors are stripped of their URL before they are returned or logged.
//
// API failures are returned as [*APIError] carrying Telegram's error
// code, description, and the retry_after hint for flood control.
// [IsAPIError] tests for a specific code.
//
// [Poller] drives the getUpdates long-poll loop. It acknowledges each
// update by advancing the offset, delivers updates to a handler in
// order, and backs off exponentially on failure while honouring
// retry_after. The back-off waits on an injected clock.Clock.
package messaging
