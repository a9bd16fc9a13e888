// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts the bot token with age so the daemon's
// configuration can carry it without exposing it.
//
// An operator generates an identity with [GenerateIdentity] (stockroom
// token keygen), seals the token to the identity's recipient with
// [Seal] (stockroom token seal), and places the armored ciphertext in
// telegram.sealed_token. At startup the daemon calls [LoadIdentity]
// and [Open]. Identities and opened tokens live in [secret.Buffer]
// values.
package sealed
