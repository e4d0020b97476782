package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"erp-sync/internal/adapters/cli"
	"erp-sync/internal/api"
	"erp-sync/internal/app"
	"erp-sync/internal/config"
	"erp-sync/internal/logger"
	"erp-sync/internal/notify"
	"erp-sync/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Commands that never reach the backend still run without configuration.
	cfg, cfgErr := config.Load()
	logCfg := logger.DefaultConfig()
	if cfgErr == nil {
		logCfg = cfg.GetLoggerConfig()
	}
	if err := logger.Setup(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	service := func() (app.ApplicationService, error) {
		if cfgErr != nil {
			return nil, cfgErr
		}
		client := api.NewClient(cfg.APIURL, cfg.APITimeout, logger.WithComponent("api"))
		notifier := notify.NewLogNotifier(logger.WithComponent("notify"))
		return app.NewAppService(client, store.New(0), notifier, logger.WithComponent("app")), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(service).ExecuteContext(ctx); err != nil {
		logCmd := logger.WithComponent("cmd")
		logCmd.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
