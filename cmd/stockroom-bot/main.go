// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// stockroom-bot runs the inventory chat bot: it long-polls the
// Telegram Bot API, routes each update through the stock ledger and
// admin registry, and serves a CBOR control socket for the stockroom
// CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/bot"
	"github.com/bureau-foundation/stockroom/lib/catalog"
	"github.com/bureau-foundation/stockroom/lib/clock"
	"github.com/bureau-foundation/stockroom/lib/config"
	"github.com/bureau-foundation/stockroom/lib/control"
	"github.com/bureau-foundation/stockroom/lib/conversation"
	"github.com/bureau-foundation/stockroom/lib/imagestore"
	"github.com/bureau-foundation/stockroom/lib/inventory"
	"github.com/bureau-foundation/stockroom/lib/process"
	"github.com/bureau-foundation/stockroom/lib/service"
	"github.com/bureau-foundation/stockroom/lib/storage"
	"github.com/bureau-foundation/stockroom/lib/version"
	"github.com/bureau-foundation/stockroom/messaging"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
		checkConfig bool
	)
	flags := pflag.NewFlagSet("stockroom-bot", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "path to stockroom.yaml (default: $"+config.EnvironmentVariable+", then built-in defaults)")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	flags.BoolVar(&checkConfig, "check-config", false, "validate the configuration and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("stockroom-bot %s\n", version.Info())
		return nil
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if checkConfig {
		fmt.Println("configuration ok")
		return nil
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := process.SignalContext(context.Background())
	defer stop()

	return serve(ctx, cfg, logger)
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg *config.Config, output io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(output, options)
	} else {
		handler = slog.NewTextHandler(output, options)
	}
	return slog.New(handler).With("environment", string(cfg.Environment)), nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	timeSource := clock.Real()
	startedAt := timeSource.Now()

	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	backend, err := storage.Open(ctx, storage.Options{
		Backend:       cfg.Storage.Backend,
		Directory:     cfg.Storage.Directory,
		LedgerFile:    cfg.Storage.LedgerFile,
		OperatorsFile: cfg.Storage.OperatorsFile,
		SQLitePath:    cfg.Storage.SQLitePath,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer backend.Close()

	ledger, err := inventory.Open(ctx, backend, logger)
	if err != nil {
		return err
	}
	registry, err := authorization.Open(ctx, backend, logger)
	if err != nil {
		return err
	}
	bootstrap := make([]authorization.OperatorID, 0, len(cfg.BootstrapOperators))
	for _, id := range cfg.BootstrapOperators {
		bootstrap = append(bootstrap, authorization.OperatorID(id))
	}
	seeded, err := registry.Seed(ctx, bootstrap)
	if err != nil {
		return fmt.Errorf("seeding operators: %w", err)
	}
	if len(registry.Members()) == 0 {
		logger.Warn("no operators are authorized; stock changes are impossible until bootstrap_operators is set")
	}

	stockCatalog, err := catalog.New(cfg.Catalog)
	if err != nil {
		return err
	}
	images, err := imagestore.Open(cfg.Storage.ImagesDirectory, logger)
	if err != nil {
		return err
	}
	conversations := conversation.NewStore(timeSource)

	logger.Info("state loaded",
		"backend", cfg.Storage.Backend,
		"products", ledger.Len(),
		"operators", len(registry.Members()),
		"seeded_operators", seeded,
		"categories", len(stockCatalog.Categories()),
	)

	token, tokenSource, err := loadToken(cfg.Telegram)
	if err != nil {
		return err
	}
	defer token.Close()

	client, err := messaging.NewClient(messaging.ClientConfig{
		APIURL: cfg.Telegram.APIURL,
		Token:  token,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	me, err := client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("checking telegram token: %w", err)
	}
	logger.Info("telegram token valid", "bot", me.Username, "bot_id", me.ID, "token_source", tokenSource)

	router, err := bot.NewRouter(bot.Config{
		Ledger:        ledger,
		Registry:      registry,
		Conversations: conversations,
		Catalog:       stockCatalog,
		Images:        images,
		BotUsername:   me.Username,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	dispatcher := bot.NewDispatcher(bot.DispatcherConfig{
		Handler:       router,
		MaxConcurrent: cfg.Telegram.MaxConcurrentEvents,
		Logger:        logger,
	})
	bridge, err := bot.NewBridge(bot.BridgeConfig{
		Transport:  client,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	poller := messaging.NewPoller(messaging.PollerConfig{
		Updater: client,
		Handler: bridge.HandleUpdate,
		Clock:   timeSource,
		Timeout: cfg.Telegram.PollTimeout,
		Logger:  logger,
	})

	handlers := &control.Handlers{
		Ledger:         ledger,
		Registry:       registry,
		Conversations:  conversations,
		Router:         router,
		Busy:           dispatcher.Pending,
		PollOffset:     poller.Offset,
		BotUsername:    me.Username,
		StorageBackend: cfg.Storage.Backend,
		StartedAt:      startedAt,
		Clock:          timeSource,
		Logger:         logger,
	}
	socketServer := service.NewServer(cfg.Control.SocketPath, logger)
	handlers.Register(socketServer)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- socketServer.Serve(ctx)
	}()

	pollDone := make(chan error, 1)
	go func() {
		pollDone <- poller.Run(ctx)
	}()

	logger.Info("stockroom bot running",
		"bot", me.Username,
		"socket", cfg.Control.SocketPath,
		"max_concurrent_events", cfg.Telegram.MaxConcurrentEvents,
	)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-pollDone:
		pollDone <- nil
	case runErr = <-socketDone:
		socketDone <- nil
		if runErr != nil {
			runErr = fmt.Errorf("control socket: %w", runErr)
		}
	}
	logger.Info("shutting down")
	cancel()

	// In-flight events finish against the cancelled context and drop
	// their replies; wait so the ledger is not closed underneath them.
	dispatcher.Wait()
	if err := <-pollDone; err != nil && runErr == nil {
		runErr = err
	}
	if err := <-socketDone; err != nil && runErr == nil {
		runErr = fmt.Errorf("control socket: %w", err)
	}

	logger.Info("stopped", "uptime", time.Since(startedAt).Round(time.Second))
	return runErr
}
