// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/stockroom/lib/config"
	"github.com/bureau-foundation/stockroom/lib/service"
)

// DefaultTimeout bounds a single control socket call.
const DefaultTimeout = 30 * time.Second

// SocketParams selects the bot's control socket. Embed it in a
// command's params struct.
type SocketParams struct {
	Socket     string
	ConfigPath string
	Timeout    time.Duration
}

// AddFlags registers --socket, --config and --timeout.
func (p *SocketParams) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&p.Socket, "socket", "", "control socket path (default: control.socket_path from the config)")
	flagSet.StringVar(&p.ConfigPath, "config", "", "path to stockroom.yaml (default: $"+config.EnvironmentVariable+")")
	flagSet.DurationVar(&p.Timeout, "timeout", DefaultTimeout, "timeout for each request")
}

// SocketPath resolves the socket from --socket or the configuration.
func (p *SocketParams) SocketPath() (string, error) {
	if p.Socket != "" {
		return p.Socket, nil
	}
	cfg, err := config.Resolve(p.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return cfg.Control.SocketPath, nil
}

// Call runs one action with the configured timeout. A daemon that is
// not running produces an error that says so.
func (p *SocketParams) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	socketPath, err := p.SocketPath()
	if err != nil {
		return err
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err = service.NewClient(socketPath).Call(ctx, action, fields, result)
	if isNotRunning(err) {
		return fmt.Errorf("stockroom-bot is not running (no control socket at %s)", socketPath)
	}
	return err
}

func isNotRunning(err error) bool {
	var opError *net.OpError
	if !errors.As(err, &opError) || opError.Op != "dial" {
		return false
	}
	return errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED)
}
