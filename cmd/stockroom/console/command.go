// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package console implements "stockroom console", an interactive
// terminal that talks to the running bot's router as a given operator
// without going through Telegram.
package console

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/stockroom/cmd/stockroom/cli"
	"github.com/bureau-foundation/stockroom/lib/control"
)

type consoleParams struct {
	cli.SocketParams
	As int64 `flag:"as" desc:"Telegram user ID to act as (required)"`
}

// Command returns the "console" command.
func Command() *cli.Command {
	var params consoleParams
	return &cli.Command{
		Name:    "console",
		Summary: "Talk to the bot from the terminal as an operator",
		Description: `Opens a chat-style console. Lines typed are delivered to the bot's
router as messages from --as; tab cycles through the buttons of the
last keyboard and enter presses the selected one when the input is
empty. Replies are shown in the transcript and are not sent to
Telegram.`,
		Params: func() any { return &params },
		Examples: []cli.Example{
			{Description: "Act as admin 1000", Command: "stockroom console --as 1000"},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if params.As <= 0 {
				return fmt.Errorf("--as must be a positive Telegram user ID")
			}
			if termenv.EnvNoColor() {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			model := NewModel(ctx, params.As, socketDispatch(&params.SocketParams))
			_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

func socketDispatch(socket *cli.SocketParams) DispatchFunc {
	return func(ctx context.Context, request control.DispatchRequest) (control.DispatchResponse, error) {
		var response control.DispatchResponse
		fields := map[string]any{"operator": request.Operator}
		if request.Selection != "" {
			fields["selection"] = request.Selection
		} else {
			fields["text"] = request.Text
		}
		err := socket.Call(ctx, control.ActionDispatch, fields, &response)
		return response, err
	}
}
