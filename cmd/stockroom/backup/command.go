// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package backup implements "stockroom backup": exporting a snapshot
// of the ledger and admin set from the running bot, and inspecting
// archive files offline.
package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/stockroom/cmd/stockroom/cli"
	"github.com/bureau-foundation/stockroom/lib/backup"
	"github.com/bureau-foundation/stockroom/lib/codec"
	"github.com/bureau-foundation/stockroom/lib/control"
	"github.com/bureau-foundation/stockroom/lib/storage"
)

// Command returns the "backup" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "backup",
		Summary: "Export and inspect stock backups",
		Description: `Backups are CBOR snapshots of the ledger and the admin set,
compressed with zstd (default) or lz4 and framed with a small header.`,
		Subcommands: []*cli.Command{
			exportCommand(),
			inspectCommand(),
		},
	}
}

type exportParams struct {
	cli.SocketParams
	Output      string `flag:"output,o" desc:"archive path (\"-\" for stdout)" default:"stockroom.bak"`
	Compression string `flag:"compression" desc:"none, lz4, or zstd" default:"zstd"`
}

func exportCommand() *cli.Command {
	var params exportParams
	return &cli.Command{
		Name:    "export",
		Summary: "Write a backup archive of the running bot's state",
		Params:  func() any { return &params },
		Examples: []cli.Example{
			{Description: "Nightly backup", Command: "stockroom backup export -o /var/backups/stockroom-$(date +%F).bak"},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if _, err := backup.ParseCompression(params.Compression); err != nil {
				return err
			}
			var response control.ExportResponse
			if err := params.Call(ctx, control.ActionExport, map[string]any{"compression": params.Compression}, &response); err != nil {
				return err
			}
			if params.Output == "-" {
				_, err := os.Stdout.Write(response.Archive)
				return err
			}
			if err := storage.WriteFileAtomic(params.Output, response.Archive, 0600); err != nil {
				return err
			}
			logger.Info("backup written",
				"path", params.Output,
				"compression", response.Compression,
				"payload_size", response.PayloadSize,
				"compressed_size", response.CompressedSize,
			)
			fmt.Fprintf(os.Stderr, "wrote %s (%d bytes, %s)\n", params.Output, len(response.Archive), response.Compression)
			return nil
		},
	}
}

type inspectParams struct {
	cli.JSONOutput
	Diagnostic bool `flag:"diag" desc:"print the payload in CBOR diagnostic notation"`
}

// inspection is the --json form of "backup inspect".
type inspection struct {
	Compression    string          `json:"compression"`
	PayloadSize    int             `json:"payload_size"`
	CompressedSize int             `json:"compressed_size"`
	Snapshot       backup.Snapshot `json:"snapshot"`
}

func inspectCommand() *cli.Command {
	var params inspectParams
	return &cli.Command{
		Name:    "inspect",
		Summary: "Decode a backup archive without contacting the bot",
		Usage:   "stockroom backup inspect <archive> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one archive path")
			}
			archive, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return inspect(os.Stdout, archive, params)
		},
	}
}

func inspect(w io.Writer, archive []byte, params inspectParams) error {
	if params.Diagnostic {
		payload, _, err := backup.Payload(archive)
		if err != nil {
			return err
		}
		notation, err := codec.Diagnose(payload)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, notation)
		return err
	}

	snapshot, header, err := backup.Decode(archive)
	if err != nil {
		return err
	}
	if params.OutputJSON {
		return cli.WriteJSON(w, inspection{
			Compression:    header.Compression.String(),
			PayloadSize:    header.PayloadSize,
			CompressedSize: header.CompressedSize,
			Snapshot:       snapshot,
		})
	}

	fmt.Fprintf(w, "version:     %d\n", snapshot.Version)
	fmt.Fprintf(w, "created:     %s\n", snapshot.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "compression: %s (%d -> %d bytes)\n", header.Compression, header.PayloadSize, header.CompressedSize)
	fmt.Fprintf(w, "products:    %d\n", len(snapshot.Ledger))
	for _, entry := range snapshot.Ledger {
		fmt.Fprintf(w, "  %s: %d\n", entry.Product, entry.Quantity)
	}
	fmt.Fprintf(w, "admins:      %d\n", len(snapshot.Operators))
	for _, id := range snapshot.Operators {
		fmt.Fprintf(w, "  %d\n", id)
	}
	return nil
}
