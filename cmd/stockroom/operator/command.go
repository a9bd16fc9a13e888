// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package operator implements "stockroom operator": listing, granting
// and revoking admin rights from the host, without a chat session.
package operator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bureau-foundation/stockroom/cmd/stockroom/cli"
	"github.com/bureau-foundation/stockroom/lib/control"
)

// Command returns the "operator" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "operator",
		Summary: "Manage the users allowed to change stock",
		Subcommands: []*cli.Command{
			listCommand(),
			changeCommand(control.ActionGrant, "Make a Telegram user an admin"),
			changeCommand(control.ActionRevoke, "Remove a Telegram user from the admins"),
		},
	}
}

type listParams struct {
	cli.SocketParams
	cli.JSONOutput
}

func listCommand() *cli.Command {
	var params listParams
	return &cli.Command{
		Name:    "list",
		Summary: "List admin user IDs",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			var response control.OperatorsResponse
			if err := params.Call(ctx, control.ActionOperators, nil, &response); err != nil {
				return err
			}
			if done, err := params.EmitJSON(response.Operators); done {
				return err
			}
			if len(response.Operators) == 0 {
				fmt.Println("no admins")
				return nil
			}
			for _, id := range response.Operators {
				fmt.Println(id)
			}
			return nil
		},
	}
}

type changeParams struct {
	cli.SocketParams
	cli.JSONOutput
}

func changeCommand(action, summary string) *cli.Command {
	var params changeParams
	return &cli.Command{
		Name:    action,
		Summary: summary,
		Usage:   "stockroom operator " + action + " <user-id> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one user ID")
			}
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			var response control.OperatorResponse
			if err := params.Call(ctx, action, map[string]any{"operator": id}, &response); err != nil {
				return err
			}
			logger.Info("operator changed", "operator", id, "outcome", response.Outcome)
			if done, err := params.EmitJSON(response); done {
				return err
			}
			fmt.Printf("%d: %s\n", response.Operator, response.Outcome)
			return nil
		},
	}
}

func parseUserID(text string) (int64, error) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user ID must be a positive number, got %q", text)
	}
	return id, nil
}
