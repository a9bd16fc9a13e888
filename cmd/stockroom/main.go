// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command stockroom is the operator CLI for stockroom-bot.
package main

import (
	"context"
	"os"

	"github.com/bureau-foundation/stockroom/cmd/stockroom/cli"
	"github.com/bureau-foundation/stockroom/cmd/stockroom/commands"
	"github.com/bureau-foundation/stockroom/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	ctx, stop := process.SignalContext(context.Background())
	defer stop()

	args, verbose := stripVerbose(os.Args[1:])
	return commands.Root().Execute(ctx, args, cli.NewCommandLogger(verbose))
}

// stripVerbose removes a leading -v or --verbose.
func stripVerbose(args []string) ([]string, bool) {
	if len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		return args[1:], true
	}
	return args, false
}
