package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/Animesh0711/DailyEase/adapter/cli/catalog"
	"github.com/Animesh0711/DailyEase/adapter/cli/delivery"
	"github.com/Animesh0711/DailyEase/adapter/cli/payment"
	"github.com/Animesh0711/DailyEase/adapter/cli/subscription"
	"github.com/Animesh0711/DailyEase/internal/app"
	"github.com/Animesh0711/DailyEase/pkg/config"
	"github.com/Animesh0711/DailyEase/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// --config has to be known before the container is built. Unknown
	// subcommand flags are reported later by Execute.
	root := cli.Root()
	root.FParseErrWhitelist.UnknownFlags = true
	_ = root.ParseFlags(os.Args[1:])
	root.FParseErrWhitelist.UnknownFlags = false

	cfg, err := config.LoadFile(cli.ConfigFile())
	logger := observability.NewLogger(observability.DefaultLogConfig())
	if err != nil {
		// In development without a usable environment, use defaults
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	} else {
		logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
		logCfg.Output = os.Stderr
		logCfg.ServiceVersion = cli.Version
		if cli.Verbose() {
			logCfg.Level = "debug"
		}
		logger = observability.NewLogger(logCfg)
	}
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// Catalog browsing and quotes still work without a database.
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			container.StartEventRelay(ctx)
		} else {
			logger.Debug("outbox processor disabled in CLI")
		}

		cliApp = cli.NewApp(
			container.Subscriptions,
			container.Payments,
			container.Deliveries,
			container.Catalog,
		)
		cliApp.SetCurrentSubscriberID(container.SubscriberID())
	}

	// Set the CLI app
	if cliApp != nil {
		cli.SetApp(cliApp)
	}

	// Register commands
	cli.AddCommand(subscription.Cmd)
	cli.AddCommand(payment.Cmd)
	cli.AddCommand(delivery.Cmd)
	cli.AddCommand(catalog.Cmd)

	// Execute CLI
	cli.Execute()
}
