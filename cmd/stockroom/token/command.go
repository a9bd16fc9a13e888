// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token implements "stockroom token": generating an age
// identity for the bot host and sealing the Telegram bot token to it,
// so the token can live in stockroom.yaml as telegram.sealed_token.
package token

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/stockroom/cmd/stockroom/cli"
	"github.com/bureau-foundation/stockroom/lib/sealed"
	"github.com/bureau-foundation/stockroom/lib/secret"
)

// Command returns the "token" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "token",
		Summary: "Manage the sealed Telegram bot token",
		Subcommands: []*cli.Command{
			keygenCommand(),
			sealCommand(),
		},
	}
}

type keygenParams struct {
	Output string `flag:"output,o" desc:"identity file to create" default:"stockroom.key"`
}

func keygenCommand() *cli.Command {
	var params keygenParams
	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity for the bot host",
		Description: `Writes a new identity file (mode 0600) and prints its public
recipient. Point telegram.identity_file at the file and pass the
recipient to "stockroom token seal".`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			recipient, err := writeIdentity(params.Output, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(recipient)
			return nil
		},
	}
}

// writeIdentity creates path with a fresh identity and returns its
// recipient. An existing file is never overwritten.
func writeIdentity(path string, now time.Time) (string, error) {
	identity, err := sealed.GenerateIdentity()
	if err != nil {
		return "", err
	}
	defer identity.Close()

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%s already exists; refusing to overwrite an identity", path)
	}
	if err != nil {
		return "", err
	}
	_, err = fmt.Fprintf(file, "# created: %s\n# public key: %s\n", now.UTC().Format(time.RFC3339), identity.Recipient)
	if err == nil {
		_, err = file.Write(append(identity.Key.Bytes(), '\n'))
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return identity.Recipient, nil
}

type sealParams struct {
	Recipients []string `flag:"recipient,r" desc:"age recipient (repeatable)"`
	Input      string   `flag:"input,i" desc:"file holding the token (\"-\" reads one line from stdin)" default:"-"`
}

func sealCommand() *cli.Command {
	var params sealParams
	return &cli.Command{
		Name:    "seal",
		Summary: "Encrypt a bot token for telegram.sealed_token",
		Params:  func() any { return &params },
		Examples: []cli.Example{
			{Description: "Seal a token read from stdin", Command: "echo \"$TOKEN\" | stockroom token seal -r age1..."},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return seal(os.Stdout, params)
		},
	}
}

func seal(w io.Writer, params sealParams) error {
	if len(params.Recipients) == 0 {
		return fmt.Errorf("at least one --recipient is required")
	}
	plaintext, err := secret.ReadFile(params.Input)
	if err != nil {
		return err
	}
	defer plaintext.Close()

	ciphertext, err := sealed.Seal(plaintext.Bytes(), params.Recipients...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, ciphertext)
	return err
}
