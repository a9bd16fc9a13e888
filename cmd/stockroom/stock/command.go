// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stock implements "stockroom stock": listing the ledger and
// recording deliveries and sales through the bot's control socket.
package stock

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bureau-foundation/stockroom/cmd/stockroom/cli"
	"github.com/bureau-foundation/stockroom/lib/control"
	"github.com/bureau-foundation/stockroom/lib/service"
)

// Command returns the "stock" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "stock",
		Summary: "List and adjust stock",
		Subcommands: []*cli.Command{
			listCommand(),
			adjustCommand("add", 1),
			adjustCommand("sell", -1),
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
		Summary: "Show every product with its quantity and status",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			var response control.StockResponse
			if err := params.Call(ctx, control.ActionStock, nil, &response); err != nil {
				return err
			}
			if done, err := params.EmitJSON(response.Rows); done {
				return err
			}
			return writeTable(os.Stdout, response.Rows)
		},
	}
}

func writeTable(w io.Writer, rows []control.StockRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no stock recorded")
		return err
	}
	table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(table, "PRODUCT\tQUANTITY\tSTATUS")
	for _, row := range rows {
		fmt.Fprintf(table, "%s\t%d\t%s\n", row.Product, row.Quantity, row.Status)
	}
	return table.Flush()
}

type adjustParams struct {
	cli.SocketParams
	cli.JSONOutput
}

// adjustCommand builds "add" or "sell"; sign is +1 or -1.
func adjustCommand(name string, sign int64) *cli.Command {
	var params adjustParams
	verb := "Record a delivery of"
	if sign < 0 {
		verb = "Record a sale of"
	}
	return &cli.Command{
		Name:    name,
		Summary: verb + " a product",
		Usage:   "stockroom stock " + name + " <product> <quantity> [flags]",
		Examples: []cli.Example{{
			Command: fmt.Sprintf("stockroom stock %s \"Round Neck\" 5", name),
		}},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			product, quantity, err := parseAdjustArgs(args)
			if err != nil {
				return err
			}
			var response control.AdjustResponse
			err = params.Call(ctx, control.ActionAdjust, map[string]any{
				"product": product,
				"delta":   sign * quantity,
			}, &response)
			if service.IsCode(err, service.CodeInsufficientStock) {
				fmt.Fprintln(os.Stderr, err)
				return &cli.ExitError{Code: 3}
			}
			if err != nil {
				return err
			}
			logger.Debug("stock adjusted", "product", response.Product, "quantity", response.Quantity)
			if done, err := params.EmitJSON(response); done {
				return err
			}
			fmt.Printf("%s: %d pcs (%s)\n", response.Product, response.Quantity, response.Status)
			return nil
		},
	}
}

// parseAdjustArgs takes the quantity from the last argument and joins
// the rest into the product name, so quoting is optional.
func parseAdjustArgs(args []string) (string, int64, error) {
	if len(args) < 2 {
		return "", 0, fmt.Errorf("expected <product> <quantity>")
	}
	quantity, err := strconv.ParseInt(args[len(args)-1], 10, 64)
	if err != nil || quantity <= 0 {
		return "", 0, fmt.Errorf("quantity must be a positive whole number, got %q", args[len(args)-1])
	}
	product := strings.Join(strings.Fields(strings.Join(args[:len(args)-1], " ")), " ")
	if product == "" {
		return "", 0, fmt.Errorf("product name is empty")
	}
	return product, quantity, nil
}
