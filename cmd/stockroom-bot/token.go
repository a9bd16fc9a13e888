// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/bureau-foundation/stockroom/lib/config"
	"github.com/bureau-foundation/stockroom/lib/sealed"
	"github.com/bureau-foundation/stockroom/lib/secret"
)

// loadToken finds the bot token. A sealed token takes precedence over
// a token file, which takes precedence over the environment.
func loadToken(telegram config.TelegramConfig) (*secret.Buffer, string, error) {
	switch {
	case telegram.SealedToken != "":
		identity, err := sealed.LoadIdentity(telegram.IdentityFile)
		if err != nil {
			return nil, "", err
		}
		defer identity.Close()
		token, err := sealed.Open(telegram.SealedToken, identity)
		if err != nil {
			return nil, "", fmt.Errorf("unsealing telegram token: %w", err)
		}
		return token, "sealed", nil

	case telegram.TokenFile != "":
		token, err := secret.ReadFile(telegram.TokenFile)
		if err != nil {
			return nil, "", fmt.Errorf("reading telegram token: %w", err)
		}
		return token, "file", nil

	case telegram.TokenEnv != "":
		token, err := secret.FromEnv(telegram.TokenEnv)
		if err != nil {
			return nil, "", fmt.Errorf("reading telegram token: %w", err)
		}
		return token, "environment", nil

	default:
		return nil, "", fmt.Errorf("no telegram token configured: set telegram.sealed_token, telegram.token_file, or telegram.token_env")
	}
}
