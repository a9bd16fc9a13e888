// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the stockroom command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/stockroom/cmd/stockroom/backup"
	"github.com/bureau-foundation/stockroom/cmd/stockroom/cli"
	"github.com/bureau-foundation/stockroom/cmd/stockroom/console"
	"github.com/bureau-foundation/stockroom/cmd/stockroom/operator"
	"github.com/bureau-foundation/stockroom/cmd/stockroom/stock"
	"github.com/bureau-foundation/stockroom/cmd/stockroom/token"
	"github.com/bureau-foundation/stockroom/lib/control"
	"github.com/bureau-foundation/stockroom/lib/version"
)

// Root returns the top-level "stockroom" command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "stockroom",
		Summary: "Operate a running stockroom bot",
		Description: `stockroom talks to stockroom-bot over its control socket. The socket
path comes from --socket, or from control.socket_path in the file
named by --config or $STOCKROOM_CONFIG.

Pass -v before the command for debug logging.`,
		Subcommands: []*cli.Command{
			statusCommand(),
			stock.Command(),
			operator.Command(),
			console.Command(),
			backup.Command(),
			token.Command(),
			versionCommand(),
		},
	}
}

type statusParams struct {
	cli.SocketParams
	cli.JSONOutput
}

func statusCommand() *cli.Command {
	var params statusParams
	return &cli.Command{
		Name:    "status",
		Summary: "Show whether the bot is running and what it holds",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			var response control.StatusResponse
			if err := params.Call(ctx, control.ActionStatus, nil, &response); err != nil {
				return err
			}
			if done, err := params.EmitJSON(response); done {
				return err
			}
			return writeStatus(os.Stdout, response)
		},
	}
}

func writeStatus(w io.Writer, status control.StatusResponse) error {
	_, err := fmt.Fprintf(w, `bot:             @%s
version:         %s
uptime:          %s (since %s)
storage:         %s
products:        %d
admins:          %d
pending actions: %d
busy operators:  %d
poll offset:     %d
`,
		status.BotUsername,
		status.Version,
		status.Uptime.Truncate(time.Second), status.StartedAt.Format(time.RFC3339),
		status.StorageBackend,
		status.Products,
		status.Operators,
		status.PendingActions,
		status.BusyOperators,
		status.PollOffset,
	)
	return err
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			fmt.Println(version.Info())
			return nil
		},
	}
}
